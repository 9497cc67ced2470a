package service

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"financeirox/config"
	"financeirox/report"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled envio desligado em email.enabled
var ErrEmailDisabled = errors.New("serviço de e-mail desativado (email.enabled=false)")

// Sender abstrai o envio para permitir testes sem SMTP
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService e-mails transacionais (boas-vindas e resumo semanal)
type EmailService struct {
	cfg    *config.EmailConfig
	sender Sender
}

// NewEmailService cria o serviço com um dialer SMTP
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// NewEmailServiceWithSender usado em testes
func NewEmailServiceWithSender(cfg *config.EmailConfig, sender Sender) *EmailService {
	return &EmailService{cfg: cfg, sender: sender}
}

// Enabled indica se há envio configurado
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendWelcomeEmail enviado após o cadastro
func (s *EmailService) SendWelcomeEmail(toEmail, name string) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	return s.sendEmail(toEmail, "Bem-vindo ao FinanceiroX", s.generateWelcomeEmailBody(name))
}

// SendWeeklyDigest resumo da semana anterior
func (s *EmailService) SendWeeklyDigest(toEmail string, digest WeeklyDigest) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	subject := fmt.Sprintf("FinanceiroX: sua semana de %s a %s", digest.From.Format("02/01"), digest.To.Format("02/01"))
	return s.sendEmail(toEmail, subject, s.generateDigestEmailBody(digest))
}

// SendTestEmail confirma a configuração SMTP
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.Enabled() {
		return ErrEmailDisabled
	}
	body := `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ E-mail configurado</h2>
    <p>Se você recebeu esta mensagem, o envio está funcionando.</p>
    <p style="color: #666;">FinanceiroX</p>
</body>
</html>
`
	return s.sendEmail(toEmail, "FinanceiroX: teste de e-mail", body)
}

const emailStyle = `
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #0f172a, #334155); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 32px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 16px; }
        table { width: 100%; border-collapse: collapse; margin: 16px 0; }
        td { padding: 8px 0; border-bottom: 1px solid #eee; }
        .pos { color: #059669; font-weight: bold; }
        .neg { color: #dc2626; font-weight: bold; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }`

func (s *EmailService) generateWelcomeEmailBody(name string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>%s
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>💴 FinanceiroX</h1></div>
        <div class="content">
            <p>Olá, <strong>%s</strong>!</p>
            <p>Sua conta foi criada. Já deixamos prontas as fontes <strong>Amazon</strong> e <strong>Uber</strong>
            e as categorias <strong>Posto</strong>, <strong>Troca de óleo</strong> e <strong>Alimentação</strong>.</p>
            <p>Registre seus ganhos e gastos para acompanhar o saldo do mês e a estimativa de imposto.</p>
        </div>
        <div class="footer"><p>Mensagem automática, não responda.</p></div>
    </div>
</body>
</html>
`, emailStyle, html.EscapeString(name))
}

func (s *EmailService) generateDigestEmailBody(d WeeklyDigest) string {
	balanceClass := "pos"
	if d.Balance.IsNegative() {
		balanceClass = "neg"
	}

	var rows strings.Builder
	for _, c := range d.TopCategories {
		fmt.Fprintf(&rows, `<tr><td>%s</td><td style="text-align:right">%s</td></tr>`,
			html.EscapeString(c.Name), report.FormatJPY(c.Total))
	}
	categories := `<p>Nenhuma despesa na semana.</p>`
	if rows.Len() > 0 {
		categories = "<table>" + rows.String() + "</table>"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>%s
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>💴 Resumo semanal</h1></div>
        <div class="content">
            <p>Olá, <strong>%s</strong>! Sua semana de %s a %s:</p>
            <table>
                <tr><td>Receitas</td><td style="text-align:right" class="pos">%s</td></tr>
                <tr><td>Despesas</td><td style="text-align:right" class="neg">%s</td></tr>
                <tr><td>Saldo</td><td style="text-align:right" class="%s">%s</td></tr>
            </table>
            <p><strong>Maiores gastos</strong></p>
            %s
        </div>
        <div class="footer"><p>Para não receber este resumo, fale com o administrador.</p></div>
    </div>
</body>
</html>
`, emailStyle, html.EscapeString(d.Name), d.From.Format("02/01"), d.To.Format("02/01"),
		report.FormatJPY(d.Income), report.FormatJPY(d.Expense), balanceClass, report.FormatJPY(d.Balance), categories)
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	m.SetHeader("From", m.FormatAddress(from, "FinanceiroX"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("falha ao enviar e-mail: %w", err)
	}
	return nil
}
