package service

import (
	"fmt"

	"duitku/config"

	"gopkg.in/gomail.v2"
)

// EmailService layanan email
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService membuat layanan email
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// FormatRupiah memformat rupiah dengan pemisah titik, mis. Rp 1.500.000
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if neg {
		return "-Rp " + string(out)
	}
	return "Rp " + string(out)
}

// SendGoalAchievedEmail mengirim ucapan saat target goal tercapai
func (s *EmailService) SendGoalAchievedEmail(toEmail, username, goalName string, target int64) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("layanan email belum diaktifkan, atur EMAIL_ENABLED=true")
	}

	subject := "[DuitKu] Target tabungan tercapai 🎉"
	body := s.generateGoalAchievedBody(username, goalName, target)

	return s.sendEmail(toEmail, subject, body)
}

// generateGoalAchievedBody menyusun isi email ucapan
func (s *EmailService) generateGoalAchievedBody(username, goalName string, target int64) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .goal-box { background: linear-gradient(135deg, #f0fdf4, #dcfce7); border: 2px dashed #10b981; border-radius: 12px; padding: 30px; text-align: center; margin: 30px 0; }
        .goal-name { font-size: 22px; font-weight: bold; color: #059669; }
        .goal-amount { font-size: 28px; font-weight: bold; color: #047857; margin-top: 10px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 DuitKu</h1>
        </div>
        <div class="content">
            <p>Halo <strong>%s</strong>!</p>
            <p>Selamat, target tabungan kamu sudah tercapai:</p>
            <div class="goal-box">
                <div class="goal-name">%s</div>
                <div class="goal-amount">%s</div>
            </div>
            <p>Terus jaga kebiasaan menabungmu, atau mulai goal baru di DuitKu.</p>
        </div>
        <div class="footer">
            <p>Email ini dikirim otomatis, mohon tidak dibalas</p>
            <p>© DuitKu - asisten keuangan pribadimu</p>
        </div>
    </div>
</body>
</html>
`, username, goalName, FormatRupiah(target))
}

// sendEmail mengirim email
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("gagal mengirim email: %w", err)
	}

	return nil
}

// SendTestEmail mengirim email uji konfigurasi
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("layanan email belum diaktifkan")
	}

	subject := "[DuitKu] Tes konfigurasi email"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ Konfigurasi email berhasil</h2>
    <p>Kalau email ini sampai, berarti layanan email sudah benar.</p>
    <p style="color: #666;">—— DuitKu</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
