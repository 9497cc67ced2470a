package jobs

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"financeirox/config"
	"financeirox/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent map[string]service.WeeklyDigest
	fail string
}

func (f *fakeMailer) SendWeeklyDigest(to string, d service.WeeklyDigest) error {
	if to == f.fail {
		return errors.New("smtp recusou")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[to] = d
	return nil
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func txRows(rows ...[]interface{}) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"id", "type", "amount", "occurred_at", "expense_category"})
	for _, row := range rows {
		vals := make([]driver.Value, len(row))
		for i, v := range row {
			vals[i] = v
		}
		r.AddRow(vals...)
	}
	return r
}

func TestSendWeeklyDigests(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC)
	day := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT `id`,`name`,`email` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(1, "Ana", "ana@example.com").
			AddRow(2, "Bruno", "bruno@example.com").
			AddRow(3, "Caio", "caio@example.com"))

	// ana: movimento
	mock.ExpectQuery("SELECT \\* FROM `transactions`").WillReturnRows(txRows([]interface{}{1, "INCOME", "1000.00", day, nil}))
	mock.ExpectQuery("SELECT \\* FROM `expense_categories`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// bruno: semana vazia
	mock.ExpectQuery("SELECT \\* FROM `transactions`").WillReturnRows(txRows())
	mock.ExpectQuery("SELECT \\* FROM `expense_categories`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// caio: envio falha
	mock.ExpectQuery("SELECT \\* FROM `transactions`").WillReturnRows(txRows([]interface{}{2, "EXPENSE", "500.00", day, "Posto"}))
	mock.ExpectQuery("SELECT \\* FROM `expense_categories`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mailer := &fakeMailer{sent: map[string]service.WeeklyDigest{}, fail: "caio@example.com"}
	sent, err := SendWeeklyDigests(context.Background(), db, mailer, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Contains(t, mailer.sent, "ana@example.com")
	assert.Equal(t, "1000", mailer.sent["ana@example.com"].Income.String())
	assert.NotContains(t, mailer.sent, "bruno@example.com")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendWeeklyDigests_UserQueryFails(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT `id`,`name`,`email` FROM `users`").WillReturnError(errors.New("db down"))

	_, err := SendWeeklyDigests(context.Background(), db, &fakeMailer{sent: map[string]service.WeeklyDigest{}}, time.Now())
	assert.Error(t, err)
}

func TestStart(t *testing.T) {
	c, err := Start(&config.Config{}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = Start(&config.Config{Jobs: config.JobsConfig{WeeklyDigestEnabled: true, WeeklyDigestCron: "not a cron"}}, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, c)

	c, err = Start(&config.Config{Jobs: config.JobsConfig{WeeklyDigestEnabled: true, WeeklyDigestCron: "0 8 * * 1"}}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	Stop(c)
}
