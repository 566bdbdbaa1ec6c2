package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// restoreGlobals puts back the global providers replaced by a test.
func restoreGlobals(t *testing.T) {
	t.Helper()

	mp, tp := otel.GetMeterProvider(), otel.GetTracerProvider()
	t.Cleanup(func() {
		otel.SetMeterProvider(mp)
		otel.SetTracerProvider(tp)
		loggerProvider.Store(nil)
	})
}

func TestNewResource(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
	}{
		{name: "service name", serviceName: "walletkit"},
		{name: "empty service name", serviceName: ""},
		{name: "service name with separators", serviceName: "walletkit-testnet_2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newResource(tt.serviceName)
			require.NoError(t, err)

			value, ok := res.Set().Value(semconv.ServiceNameKey)
			require.True(t, ok, "service name attribute not found in resource")
			assert.Equal(t, tt.serviceName, value.AsString())
		})
	}
}

func TestInitProviders(t *testing.T) {
	res, err := newResource("walletkit-test")
	require.NoError(t, err)

	t.Run("meter provider becomes global", func(t *testing.T) {
		restoreGlobals(t)

		mp, err := initMeterProvider(context.Background(), res)
		if err != nil {
			t.Skipf("no OTLP metric exporter available: %v", err)
		}
		t.Cleanup(func() { shutdownWithin(mp.Shutdown) })

		assert.Same(t, mp, otel.GetMeterProvider())
	})

	t.Run("tracer provider becomes global", func(t *testing.T) {
		restoreGlobals(t)

		tp, err := initTracerProvider(context.Background(), res)
		if err != nil {
			t.Skipf("no OTLP trace exporter available: %v", err)
		}
		t.Cleanup(func() { shutdownWithin(tp.Shutdown) })

		assert.Same(t, tp, otel.GetTracerProvider())
	})

	t.Run("logger provider is stored for the logger bridge", func(t *testing.T) {
		restoreGlobals(t)

		lp, err := initLoggerProvider(context.Background(), res)
		if err != nil {
			t.Skipf("no OTLP log exporter available: %v", err)
		}
		t.Cleanup(func() { shutdownWithin(lp.Shutdown) })

		assert.Same(t, lp, LoggerProvider())
	})
}

func TestLoggerProvider(t *testing.T) {
	t.Run("nil before initialization", func(t *testing.T) {
		loggerProvider.Store(nil)
		assert.Nil(t, LoggerProvider())
	})

	t.Run("returns the stored provider", func(t *testing.T) {
		lp := sdklog.NewLoggerProvider()
		loggerProvider.Store(lp)
		t.Cleanup(func() { loggerProvider.Store(nil) })

		assert.Same(t, lp, LoggerProvider())
	})
}

func TestInit(t *testing.T) {
	t.Run("shutdown detaches the logger bridge", func(t *testing.T) {
		// Arrange
		restoreGlobals(t)

		shutdown, err := Init(context.Background(), "walletkit-test")
		if err != nil {
			t.Skipf("no OTLP exporters available: %v", err)
		}
		require.NotNil(t, LoggerProvider())

		// Act
		if err := shutdown(shortContext(t)); err != nil {
			t.Logf("shutdown without a collector: %v", err)
		}

		// Assert
		assert.Nil(t, LoggerProvider())
	})

	t.Run("shutdown with a cancelled context still detaches", func(t *testing.T) {
		restoreGlobals(t)

		shutdown, err := Init(context.Background(), "walletkit-test")
		if err != nil {
			t.Skipf("no OTLP exporters available: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_ = shutdown(ctx)
		assert.Nil(t, LoggerProvider())
	})
}

func shortContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)
	return ctx
}

func shutdownWithin(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
