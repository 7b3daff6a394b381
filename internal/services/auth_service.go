package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/authorizerdev/authorizer-go"

	"github.com/pantrio/pantrio/internal/config"
	"github.com/pantrio/pantrio/internal/utils"
)

var (
	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
)

// IsAuthorizerInitialized reports whether InitAuthorizer has completed.
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer builds the process-wide Authorizer client on first call.
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		// Confirm the service is reachable before handing out a client.
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
	})

	return initErr
}

// ValidateSession validates a session cookie and returns the session's
// user payload when valid.
func ValidateSession(cookie string, roles []string) (map[string]interface{}, error) {
	if authClient == nil {
		return nil, fmt.Errorf("authorizer client not initialized")
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}

	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	// Flatten the SDK's user struct into a map keyed by its JSON tags so
	// callers are not coupled to the SDK type.
	payload, err := json.Marshal(res.User)
	if err != nil {
		return nil, fmt.Errorf("encoding session user failed: %w", err)
	}
	var user map[string]interface{}
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("decoding session user failed: %w", err)
	}

	return map[string]interface{}{
		"is_valid": res.IsValid,
		"user":     user,
	}, nil
}
