package service

import (
	"fmt"
	"html"

	"daily/apperr"
	"daily/config"

	"gopkg.in/gomail.v2"
)

// Mailer 发送系统邮件
type Mailer interface {
	SendPasswordResetEmail(toEmail, username, resetLink string) error
}

// EmailService 基于 SMTP 的邮件服务
type EmailService struct {
	cfg  config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	return s
}

// SendPasswordResetEmail 发送密码重置邮件
func (s *EmailService) SendPasswordResetEmail(toEmail, username, resetLink string) error {
	if !s.cfg.Enabled {
		return apperr.Unavailable("邮件服务未启用")
	}
	return s.sendEmail(toEmail, "【每日记录】密码重置", resetEmailBody(username, resetLink))
}

// resetEmailBody 生成重置邮件内容
func resetEmailBody(username, resetLink string) string {
	name, link := html.EscapeString(username), html.EscapeString(resetLink)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 32px;">
        <h2 style="color: #409EFF;">每日记录</h2>
        <p>%s，您好！</p>
        <p>我们收到了您的密码重置请求，请点击下方链接重置密码：</p>
        <p><a href="%s" style="display: inline-block; background: #409EFF; color: #fff; padding: 12px 32px; border-radius: 6px; text-decoration: none;">重置密码</a></p>
        <p style="color: #856404;">链接 30 分钟内有效，且只能使用一次。如果不是您本人操作，请忽略此邮件。</p>
        <p style="word-break: break-all; color: #666; font-size: 12px;">%s</p>
    </div>
</body>
</html>
`, name, link, link)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
