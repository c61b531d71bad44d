package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New は zerolog.Logger を構築します。file が指定された場合は標準出力と併せて追記します。
// 返却される io.Closer はログファイルを閉じるためのもので、ファイル未指定時は何もしません。
func New(level, file string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("logger: parse level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writers := []io.Writer{os.Stdout}
	var closer io.Closer = nopCloser{}

	if file != "" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logger: open %s: %w", file, err)
		}
		writers = append(writers, f)
		closer = f
	}

	return NewWithWriter(zerolog.MultiLevelWriter(writers...), lvl), closer, nil
}

// NewWithWriter は任意の出力先を持つロガーを返します。
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// WithContext はロガーをコンテキストに格納します。
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext はコンテキストのロガーを返します。未設定の場合は Nop ロガーです。
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
