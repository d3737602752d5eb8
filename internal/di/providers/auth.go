package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/cinetag/cinetag-server/internal/auth"
	"github.com/cinetag/cinetag-server/internal/config"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/ratelimit"
)

// AuthKey is the PASETO symmetric key.
type AuthKey []byte

// ProvideAuthKey loads or generates the token key under the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}
	cfg.Auth.AccessTokenKey = key

	log.Info("Auth key loaded", "path", cfg.Data.BasePath)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(key, cfg.Auth.AccessTokenDuration)
}

// LoginLimiterHandle wraps the per-account login limiter with shutdown capability.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// Five attempts per account, refilled at one every twelve seconds.
const (
	loginAttemptsPerSecond = 1.0 / 12
	loginBurst             = 5
	loginLimiterTTL        = 15 * time.Minute
)

// ProvideLoginLimiter provides the per-account login throttle.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	limiter := ratelimit.New(loginAttemptsPerSecond, loginBurst, loginLimiterTTL)
	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}
