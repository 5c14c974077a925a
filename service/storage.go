package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"daily/apperr"
	"daily/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// 上传用途，对应对象 key 的前缀
var uploadKinds = map[string]bool{
	"appearance": true,
	"food":       true,
	"diary":      true,
	"note":       true,
	"avatar":     true,
}

var allowedNoteTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
	"text/markdown":   true,
}

// PresignInput 直传申请
type PresignInput struct {
	Kind        string
	Filename    string
	ContentType string
}

// PresignedUpload 预签名上传地址
type PresignedUpload struct {
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Key       string            `json:"key"`
	URL       string            `json:"url"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// UploadService 对象存储直传（S3 兼容）
type UploadService struct {
	cfg     config.StorageConfig
	presign func(ctx context.Context, in *s3.PutObjectInput, ttl time.Duration) (string, error)
	now     func() time.Time
}

// NewUploadService 创建上传服务；未启用时返回的服务会拒绝所有申请
func NewUploadService(ctx context.Context, cfg config.StorageConfig) (*UploadService, error) {
	s := &UploadService{cfg: cfg, now: time.Now}
	if !cfg.Enabled {
		return s, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("加载对象存储配置失败: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	presigner := s3.NewPresignClient(client)
	s.presign = func(ctx context.Context, in *s3.PutObjectInput, ttl time.Duration) (string, error) {
		req, err := presigner.PresignPutObject(ctx, in, s3.WithPresignExpires(ttl))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}
	return s, nil
}

// Enabled 是否启用
func (s *UploadService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.presign != nil
}

// Presign 为当前用户生成一次性上传地址，对象 key 为 kind/userId/uuid.ext
func (s *UploadService) Presign(ctx context.Context, ownerID string, in PresignInput) (*PresignedUpload, error) {
	if !s.Enabled() {
		return nil, apperr.Unavailable("文件上传未启用")
	}
	if !uploadKinds[in.Kind] {
		return nil, apperr.Validation("上传用途无效", apperr.FieldError{Field: "kind", Message: "不支持的用途"})
	}
	if !allowedContentType(in.Kind, in.ContentType) {
		return nil, apperr.Validation("文件类型不支持", apperr.FieldError{Field: "contentType", Message: "不支持的文件类型"})
	}

	key := ObjectKey(in.Kind, ownerID, in.Filename)
	url, err := s.presign(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(in.ContentType),
	}, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("生成上传地址失败: %w", err)
	}
	return &PresignedUpload{
		UploadURL: url,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": in.ContentType},
		Key:       key,
		URL:       s.publicURL(key),
		ExpiresAt: s.now().Add(s.cfg.PresignTTL),
	}, nil
}

func (s *UploadService) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// ObjectKey 生成对象 key，只保留原文件的扩展名
func ObjectKey(kind, ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, `\`, "/"))))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%s/%s/%s%s", kind, ownerID, uuid.NewString(), ext)
}

func allowedContentType(kind, contentType string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	return kind == "note" && allowedNoteTypes[contentType]
}
