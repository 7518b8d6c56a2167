package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// PhotoUploader writes proposition photos to a GCS bucket and returns a
// tokenized download URL.
type PhotoUploader struct {
	client *gcs.Client
	bucket string
}

func NewPhotoUploader(client *gcs.Client, bucket string) *PhotoUploader {
	return &PhotoUploader{client: client, bucket: bucket}
}

// Enabled reports whether a bucket is configured. Photo upload is optional;
// the rest of the API works without it.
func (u *PhotoUploader) Enabled() bool {
	return u != nil && u.client != nil && u.bucket != ""
}

func (u *PhotoUploader) Upload(ctx context.Context, src io.Reader, contentType string) (string, error) {
	if !u.Enabled() {
		return "", fmt.Errorf("photo storage is not configured")
	}
	token := uuid.NewString()
	objectPath := fmt.Sprintf("propositions/%s", uuid.NewString())
	obj := u.client.Bucket(u.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, escapedPath, token)
	return publicURL, nil
}
