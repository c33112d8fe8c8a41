package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/constants"
	"github.com/lumishop/lumishop/internal/i18n"
	"github.com/lumishop/lumishop/internal/models"
)

// EmailService 纯文本通知邮件，走 net/smtp 直连
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// RestockEmailInput 到货通知邮件内容
type RestockEmailInput struct {
	ProductName  string
	ProductSlug  string
	CountInStock int
}

// SendRestockEmail 按订阅人的语言发送商品到货通知
func (s *EmailService) SendRestockEmail(toEmail string, input RestockEmailInput, locale string) error {
	lang := normalizeLocale(locale)
	subject := i18n.Sprintf(lang, "email.restock.subject", input.ProductName)
	body := i18n.Sprintf(lang, "email.restock.body", input.ProductName, input.CountInStock, input.ProductSlug)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendWelcomeCouponEmail 通知新买家欢迎券已到账
func (s *EmailService) SendWelcomeCouponEmail(toEmail string, coupon *models.Coupon, locale string) error {
	if coupon == nil {
		return nil
	}
	expiry := "-"
	if coupon.ExpiresAt != nil {
		expiry = coupon.ExpiresAt.Format("2006-01-02")
	}

	lang := normalizeLocale(locale)
	subject := i18n.T(lang, "email.welcome_coupon.subject")
	body := i18n.Sprintf(lang, "email.welcome_coupon.body",
		coupon.Code, couponValueLabel(coupon), expiry)
	return s.sendTextEmail(toEmail, subject, body)
}

// ReviewModerationEmailInput 新评论待审邮件内容
type ReviewModerationEmailInput struct {
	ReviewID    uint
	ProductName string
	Rating      int
	Comment     string
}

// SendReviewModerationEmail 提醒管理员有新评论等待审核
func (s *EmailService) SendReviewModerationEmail(toEmail string, input ReviewModerationEmailInput, locale string) error {
	lang := normalizeLocale(locale)
	subject := i18n.T(lang, "email.review_moderation.subject")
	body := i18n.Sprintf(lang, "email.review_moderation.body",
		input.ProductName, input.Rating, input.Comment, input.ReviewID)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendCustomEmail 发送自定义邮件，空主题/正文落到测试文案
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "SMTP 配置测试邮件"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "这是一封来自 LumiShop 的 SMTP 测试邮件，说明当前配置可正常发送。"
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func couponValueLabel(coupon *models.Coupon) string {
	if coupon.Type == constants.CouponTypePercentage {
		return coupon.Value.String() + "%"
	}
	return coupon.Value.String()
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	client, err := s.dialSMTP()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := s.authenticate(client); err != nil {
		return err
	}
	return transmit(client, s.cfg.From, []string{toEmail}, []byte(msg))
}

// dialSMTP 按配置选择连接方式：SSL 直连、STARTTLS 升级或明文
func (s *EmailService) dialSMTP() (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if s.cfg.UseSSL {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
		if err != nil {
			return nil, err
		}
		client, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return client, nil
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, err
	}
	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}

// authenticate 服务器支持 AUTH 且配置了账号时做 PLAIN 认证
func (s *EmailService) authenticate(client *smtp.Client) error {
	if s.cfg.Username == "" && s.cfg.Password == "" {
		return nil
	}
	if ok, _ := client.Extension("AUTH"); !ok {
		return nil
	}
	return client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host))
}

func transmit(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// normalizeLocale 把任意语言标签折叠到支持的三种之一
func normalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "zh-tw"), strings.HasPrefix(l, "zh-hk"), strings.HasPrefix(l, "zh-mo"):
		return constants.LocaleZhTW
	case strings.HasPrefix(l, "en"):
		return constants.LocaleEnUS
	default:
		return constants.LocaleZhCN
	}
}

// buildFromAddress 发件人显示名按 RFC 2047 Q 编码
func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}
