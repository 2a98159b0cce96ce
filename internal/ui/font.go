package ui

import (
	"bytes"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/hailam/dragboard/internal/obslog"
)

const (
	defaultFontSize = 14.0
	labelFontSize   = 14.0
	pickerFontSize  = 12.0
)

var (
	fontsOnce   sync.Once
	regularFace *text.GoTextFace
	boldFace    *text.GoTextFace
)

func loadFonts() {
	fontsOnce.Do(func() {
		regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			obslog.L().Warn("load regular font", zap.Error(err))
			return
		}
		regularFace = &text.GoTextFace{Source: regular, Size: defaultFontSize}

		bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
		if err != nil {
			obslog.L().Warn("load bold font", zap.Error(err))
			return
		}
		boldFace = &text.GoTextFace{Source: bold, Size: labelFontSize}
	})
}

// GetRegularFace returns the regular font face, or nil if it failed to load.
func GetRegularFace() *text.GoTextFace {
	loadFonts()
	return regularFace
}

// GetBoldFace returns the bold face used for board labels.
func GetBoldFace() *text.GoTextFace {
	loadFonts()
	return boldFace
}

// GetFaceWithSize returns the regular face at a custom size.
func GetFaceWithSize(size float64) *text.GoTextFace {
	if GetRegularFace() == nil {
		return nil
	}
	return &text.GoTextFace{Source: regularFace.Source, Size: size}
}

// MeasureText returns the width and height of the given text.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
