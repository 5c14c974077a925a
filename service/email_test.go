package service

import (
	"errors"
	"mime"
	"testing"

	"daily/apperr"
	"daily/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestResetEmailBody(t *testing.T) {
	body := resetEmailBody("张三<script>", "https://example.com/#/reset-password?token=abc&x=1")
	assert.Contains(t, body, "张三&lt;script&gt;")
	assert.Contains(t, body, "token=abc&amp;x=1")
	assert.Contains(t, body, "重置密码")
	assert.Contains(t, body, "30 分钟")
}

func TestEmailService_Disabled(t *testing.T) {
	s := NewEmailService(config.EmailConfig{})
	err := s.SendPasswordResetEmail("a@example.com", "alice", "https://example.com")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestEmailService_Send(t *testing.T) {
	s := NewEmailService(config.EmailConfig{Enabled: true, Username: "noreply@example.com", From: "每日记录"})
	var sent *gomail.Message
	s.send = func(m *gomail.Message) error {
		sent = m
		return nil
	}
	require.NoError(t, s.SendPasswordResetEmail("a@example.com", "alice", "https://example.com/reset"))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"a@example.com"}, sent.GetHeader("To"))
	// gomail 按 RFC 2047 编码非 ASCII 头部
	subject := sent.GetHeader("Subject")
	require.Len(t, subject, 1)
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject[0])
	require.NoError(t, err)
	assert.Equal(t, "【每日记录】密码重置", decoded)

	s.send = func(*gomail.Message) error { return errors.New("dial tcp: timeout") }
	err = s.SendPasswordResetEmail("a@example.com", "alice", "https://example.com/reset")
	assert.ErrorContains(t, err, "发送邮件失败")
}
