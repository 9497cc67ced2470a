// Package jobs agenda as tarefas periódicas (resumo semanal por e-mail).
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"financeirox/config"
	"financeirox/logger"
	"financeirox/models"
	"financeirox/service"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const maxConcurrentSends = 4

// DigestMailer envia o resumo semanal
type DigestMailer interface {
	SendWeeklyDigest(toEmail string, digest service.WeeklyDigest) error
}

// Start agenda os jobs habilitados e inicia o cron no fuso configurado.
// Devolve nil quando nenhum job está habilitado.
func Start(cfg *config.Config, db *gorm.DB, mailer DigestMailer) (*cron.Cron, error) {
	if !cfg.Jobs.WeeklyDigestEnabled {
		return nil, nil
	}

	c := cron.New(cron.WithLocation(config.Location()))
	schedule := cfg.Jobs.WeeklyDigestCron
	if schedule == "" {
		schedule = "0 8 * * 1"
	}
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		sent, err := SendWeeklyDigests(ctx, db, mailer, time.Now().In(config.Location()))
		if err != nil {
			logger.Log.WithError(err).Error("falha no resumo semanal")
			return
		}
		logger.Log.WithField("sent", sent).Info("resumo semanal enviado")
	})
	if err != nil {
		return nil, fmt.Errorf("cron inválido %q: %w", schedule, err)
	}

	c.Start()
	logger.Log.WithField("cron", schedule).Info("job de resumo semanal agendado")
	return c, nil
}

// Stop aguarda o término dos jobs em execução
func Stop(c *cron.Cron) {
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// SendWeeklyDigests monta e envia o resumo de cada usuário com movimento na semana.
// Falhas individuais são registradas e não interrompem os demais envios.
func SendWeeklyDigests(ctx context.Context, db *gorm.DB, mailer DigestMailer, now time.Time) (int, error) {
	var users []models.User
	if err := db.WithContext(ctx).Select("id", "name", "email").Find(&users).Error; err != nil {
		return 0, fmt.Errorf("listar usuários: %w", err)
	}

	// consultas em sequência; só o envio SMTP é paralelo
	digests := make([]service.WeeklyDigest, 0, len(users))
	recipients := make([]string, 0, len(users))
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		d, err := service.BuildWeeklyDigest(db.WithContext(ctx), u, now)
		if err != nil {
			logger.Log.WithError(err).WithField("user", u.Email).Warn("resumo semanal não montado")
			continue
		}
		if d.Empty() {
			continue
		}
		digests = append(digests, d)
		recipients = append(recipients, u.Email)
	}

	var (
		wg   sync.WaitGroup
		sent atomic.Int64
		sem  = make(chan struct{}, maxConcurrentSends)
	)
	for i := range digests {
		wg.Add(1)
		sem <- struct{}{}
		go func(to string, d service.WeeklyDigest) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := mailer.SendWeeklyDigest(to, d); err != nil {
				if !errors.Is(err, service.ErrEmailDisabled) {
					logger.Log.WithError(err).WithField("user", to).Warn("falha ao enviar resumo semanal")
				}
				return
			}
			sent.Add(1)
		}(recipients[i], digests[i])
	}
	wg.Wait()
	return int(sent.Load()), nil
}
