package kolor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))

	Logger().Debug("decode")
	assert.Equal(t, 1, logs.FilterMessage("decode").Len())

	SetLogger(nil)
	assert.NotNil(t, Logger())
	assert.NotPanics(t, func() {
		Logger().Debug("still fine")
	})
}

func TestSetLoggerConcurrent(t *testing.T) {
	defer SetLogger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(zap.NewNop())
		}()
		go func() {
			defer wg.Done()
			Logger().Debug("concurrent")
		}()
	}
	wg.Wait()
}
