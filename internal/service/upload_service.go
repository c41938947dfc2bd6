package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
	"github.com/paveworks/paveworks-api/internal/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Upload validation sentinels.
var (
	ErrUploadTooLarge    = errors.New("file exceeds the size limit")
	ErrUploadBadType     = errors.New("file type not allowed")
	ErrUploadBadScene    = errors.New("unknown upload scene")
	ErrUploadNotFound    = errors.New("uploaded file not found")
	ErrUploadUnavailable = errors.New("upload backend unavailable")
)

// UploadResult describes a stored file.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Scene    string `json:"scene"`
}

// UploadService stores media on Cloudinary when configured and falls
// back to the local uploads directory otherwise.
type UploadService struct {
	cfg *config.UploadConfig
	cld *cloudinary.Cloudinary
}

// NewUploadService creates the upload service. A Cloudinary init
// failure degrades to local storage instead of failing startup.
func NewUploadService(cfg *config.UploadConfig) *UploadService {
	svc := &UploadService{cfg: cfg}
	if cfg != nil && cfg.Cloudinary.Enabled {
		cld, err := cloudinary.NewFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			logger.Errorw("cloudinary_init_failed", "error", err)
		} else {
			svc.cld = cld
		}
	}
	return svc
}

// Upload validates and stores one file under the given scene.
func (s *UploadService) Upload(ctx context.Context, file *multipart.FileHeader, scene string) (*UploadResult, error) {
	if s.cfg == nil {
		return nil, ErrUploadUnavailable
	}
	scene, err := normalizeScene(scene)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return nil, ErrUploadTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !stringInList(ext, s.cfg.AllowedExtensions) {
		return nil, ErrUploadBadType
	}
	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !stringInList(contentType, s.cfg.AllowedTypes) {
		return nil, ErrUploadBadType
	}

	filename := uuid.NewString() + ext
	if s.cld != nil {
		return s.uploadToCloudinary(ctx, file, scene, filename)
	}
	return s.uploadToDisk(file, scene, filename)
}

func (s *UploadService) uploadToCloudinary(ctx context.Context, file *multipart.FileHeader, scene, filename string) (*UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	folder := scene
	if base := strings.TrimSpace(s.cfg.Cloudinary.Folder); base != "" {
		folder = base + "/" + scene
	}
	publicID := strings.TrimSuffix(filename, filepath.Ext(filename))

	res, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return nil, err
	}
	return &UploadResult{
		URL:      res.SecureURL,
		Filename: filename,
		Size:     file.Size,
		Scene:    scene,
	}, nil
}

func (s *UploadService) uploadToDisk(file *multipart.FileHeader, scene, filename string) (*UploadResult, error) {
	baseDir := s.cfg.LocalDir
	if baseDir == "" {
		baseDir = "./uploads"
	}
	dir := filepath.Join(baseDir, scene)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}
	return &UploadResult{
		URL:      fmt.Sprintf("/uploads/%s/%s", scene, filename),
		Filename: filename,
		Size:     file.Size,
		Scene:    scene,
	}, nil
}

// Delete removes a stored file by scene and filename. Deleting from
// Cloudinary resolves the public id the same way Upload assigned it.
func (s *UploadService) Delete(ctx context.Context, scene, filename string) error {
	if s.cfg == nil {
		return ErrUploadUnavailable
	}
	scene, err := normalizeScene(scene)
	if err != nil {
		return err
	}
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return ErrUploadNotFound
	}

	if s.cld != nil {
		folder := scene
		if base := strings.TrimSpace(s.cfg.Cloudinary.Folder); base != "" {
			folder = base + "/" + scene
		}
		publicID := folder + "/" + strings.TrimSuffix(filename, filepath.Ext(filename))
		res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     publicID,
			ResourceType: "image",
		})
		if err != nil {
			return err
		}
		if res.Result == "not found" {
			return ErrUploadNotFound
		}
		return nil
	}

	baseDir := s.cfg.LocalDir
	if baseDir == "" {
		baseDir = "./uploads"
	}
	path := filepath.Join(baseDir, scene, filename)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrUploadNotFound
		}
		return err
	}
	return nil
}

func normalizeScene(scene string) (string, error) {
	scene = strings.ToLower(strings.TrimSpace(scene))
	if scene == "" {
		return constants.UploadSceneCommon, nil
	}
	switch scene {
	case constants.UploadSceneServices, constants.UploadSceneProjects,
		constants.UploadSceneBlog, constants.UploadSceneTestimonials,
		constants.UploadSceneAvatars, constants.UploadSceneCommon:
		return scene, nil
	}
	return "", ErrUploadBadScene
}

func stringInList(value string, list []string) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
