package gcs

import (
	"crypto/rand"
	"crypto/rsa"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLCarriesExpiryAndSignature(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signer := &urlSigner{email: "svc@project.iam.gserviceaccount.com", key: key}
	expires := time.Now().Add(15 * time.Minute)

	signed, err := signer.signedURL("evidence-bucket", "suppliers/abc/doc.pdf", expires)
	require.NoError(t, err)

	parsed, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "storage.googleapis.com", parsed.Host)
	assert.Equal(t, "svc@project.iam.gserviceaccount.com", parsed.Query().Get("GoogleAccessId"))
	assert.NotEmpty(t, parsed.Query().Get("Signature"))
	assert.NotEmpty(t, parsed.Query().Get("Expires"))
	assert.True(t, strings.Contains(parsed.Path, "suppliers"))
}

func TestBucketOrDefault(t *testing.T) {
	c := &Client{defaultBucket: "evidence"}
	assert.Equal(t, "evidence", c.bucketOrDefault(""))
	assert.Equal(t, "other", c.bucketOrDefault("other"))
}

func TestSignedReadURLRequiresSigner(t *testing.T) {
	c := &Client{defaultBucket: "evidence"}
	_, err := c.SignedReadURL("", "obj", time.Minute)
	assert.Error(t, err)
}
