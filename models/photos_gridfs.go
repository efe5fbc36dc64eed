package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

const photoURLPrefix = "/photos/"

// gridFSPhotoStore keeps photo blobs in a GridFS bucket on the same
// database as the documents. Keys are GridFS filenames; the URL for a
// blob is baseURL + "/photos/" + key, served back by the photos route.
type gridFSPhotoStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSPhotoStore(bucket *gridfs.Bucket, baseURL string) PhotoStore {
	return &gridFSPhotoStore{bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *gridFSPhotoStore) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(dl)
	}
	if _, err := s.bucket.UploadFromStream(key, r); err != nil {
		return "", fmt.Errorf("%w: uploading %s: %v", ErrStorage, key, err)
	}
	return s.baseURL + photoURLPrefix + key, nil
}

// keyFromURL recovers the blob key from a stored photo URL.
func keyFromURL(url string) string {
	if i := strings.Index(url, photoURLPrefix); i >= 0 {
		return url[i+len(photoURLPrefix):]
	}
	return url
}

func (s *gridFSPhotoStore) Delete(ctx context.Context, url string) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(dl)
	}
	key := keyFromURL(url)
	cur, err := s.bucket.Find(bson.M{"filename": key})
	if err != nil {
		return fmt.Errorf("%w: finding %s: %v", ErrStorage, key, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var f struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&f); err != nil {
			return fmt.Errorf("%w: decoding %s: %v", ErrStorage, key, err)
		}
		if err := s.bucket.Delete(f.ID); err != nil {
			return fmt.Errorf("%w: deleting %s: %v", ErrStorage, key, err)
		}
	}
	return cur.Err()
}

func (s *gridFSPhotoStore) Download(ctx context.Context, key string, w io.Writer) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetReadDeadline(dl)
	}
	if _, err := s.bucket.DownloadToStreamByName(key, w); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("%w: photo %s", ErrNotFound, key)
		}
		return fmt.Errorf("%w: downloading %s: %v", ErrStorage, key, err)
	}
	return nil
}
