package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"financeirox/config"

	"github.com/sirupsen/logrus"
)

// Log logger global da aplicação
var Log = logrus.New()

// Init configura nível, formato e saída a partir de log.*
func Init(cfg config.LogConfig) {
	Log.SetReportCaller(true)

	caller := func(f *runtime.Frame) (string, string) {
		return "", filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
	}
	if strings.EqualFold(cfg.Format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  "2006-01-02T15:04:05Z07:00",
			CallerPrettyfier: caller,
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			CallerPrettyfier: caller,
		})
	}

	Log.SetLevel(ParseLevel(cfg.Level))

	Log.SetOutput(os.Stdout)
	if cfg.File == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		Log.WithError(err).Warn("não foi possível criar o diretório de logs, usando stdout")
		return
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		Log.WithError(err).Warn("não foi possível abrir o arquivo de log, usando stdout")
		return
	}
	Log.SetOutput(file)
}

// ParseLevel converte o nome do nível; desconhecido vira info
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
