package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 是一个全局的、配置好的 logrus 实例
var Log = logrus.New()

// InitLogger 初始化全局的Logger实例；file为空时只输出到控制台
func InitLogger(level logrus.Level, file string) error {
	Log = logrus.New()

	// JSON格式的结构化日志，便于后续用ELK、Loki等工具分析
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var out io.Writer = os.Stdout
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		// 同时打印在控制台和文件里
		out = io.MultiWriter(os.Stdout, f)
	}
	Log.SetOutput(out)
	Log.SetLevel(level)
	return nil
}
