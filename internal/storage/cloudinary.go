// Package storage uploads payment receipts and patient documents to
// Cloudinary. The rest of the system only ever stores the returned
// reference, never the bytes.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Uploaded is the stored outcome of one upload. Ref is the Cloudinary
// public id and goes into the database; URL is handed back to the client
// for immediate display.
type Uploaded struct {
	Ref string
	URL string
}

type CloudinaryStore struct {
	cld            *cloudinary.Cloudinary
	receiptFolder  string
	documentFolder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, receiptFolder, documentFolder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("NewCloudinaryStore: %w", err)
	}
	return &CloudinaryStore{
		cld:            cld,
		receiptFolder:  receiptFolder,
		documentFolder: documentFolder,
	}, nil
}

// UploadReceipt stores a deposit receipt image under the receipt folder,
// keyed by booking so receipts stay browsable per patient.
func (s *CloudinaryStore) UploadReceipt(ctx context.Context, bookingID uuid.UUID, filename string, r io.Reader) (*Uploaded, error) {
	return s.upload(ctx, s.receiptFolder, bookingID, filename, r)
}

// UploadDocument stores a patient document (test results, referral
// letters) under the document folder.
func (s *CloudinaryStore) UploadDocument(ctx context.Context, bookingID uuid.UUID, filename string, r io.Reader) (*Uploaded, error) {
	return s.upload(ctx, s.documentFolder, bookingID, filename, r)
}

func (s *CloudinaryStore) upload(ctx context.Context, folder string, bookingID uuid.UUID, filename string, r io.Reader) (*Uploaded, error) {
	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         folder,
		PublicID:       publicID(bookingID, filename),
		Overwrite:      api.Bool(false),
		UniqueFilename: api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	return &Uploaded{Ref: result.PublicID, URL: result.SecureURL}, nil
}

// publicID builds a stable asset name from the booking id and the upload
// filename with its extension stripped, e.g. "a1b2.../receipt-1403-07-12".
func publicID(bookingID uuid.UUID, filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, base)
	return bookingID.String() + "/" + base
}
