package attachment

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/domain"
)

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryBackend uploads PDFs as raw files and images as image assets.
type CloudinaryBackend struct {
	api    uploadAPI
	folder string
}

// NewCloudinaryBackend connects with the configured credentials.
func NewCloudinaryBackend(cfg config.StorageConfig) (*CloudinaryBackend, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryBackend{api: &cld.Upload, folder: cfg.Folder}, nil
}

func (b *CloudinaryBackend) Name() string { return "remote" }

// Placement returns the folder and resource type used for u.
func (b *CloudinaryBackend) Placement(u Upload) (folder, resourceType string) {
	if u.IsPDF() {
		return path.Join(b.folder, "resumes"), "raw"
	}
	return path.Join(b.folder, "images"), "image"
}

func (b *CloudinaryBackend) Put(ctx context.Context, u Upload, _ string) (*domain.AttachmentRef, error) {
	f, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	folder, resourceType := b.Placement(u)
	res, err := b.api.Upload(ctx, f, uploader.UploadParams{
		Folder:         folder,
		ResourceType:   resourceType,
		PublicID:       strings.TrimSuffix(u.FileName, path.Ext(u.FileName)),
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return nil, errors.New("cloudinary upload: empty result")
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	return &domain.AttachmentRef{Remote: &domain.RemoteFile{
		URL:        res.SecureURL,
		ProviderID: res.PublicID,
		Format:     res.Format,
		SizeBytes:  int64(res.Bytes),
		FileName:   u.FileName,
	}}, nil
}

// Remove destroys a remote asset. PDFs were uploaded as raw files.
func (b *CloudinaryBackend) Remove(ctx context.Context, ref *domain.AttachmentRef) error {
	if ref == nil || ref.Remote == nil || ref.Remote.ProviderID == "" {
		return nil
	}
	resourceType := "image"
	if strings.EqualFold(path.Ext(ref.Remote.FileName), ".pdf") || ref.Remote.Format == "pdf" {
		resourceType = "raw"
	}
	res, err := b.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     ref.Remote.ProviderID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res != nil && res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	return nil
}
