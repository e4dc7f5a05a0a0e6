package stores

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oarkflow/permits"
)

// RedisAPIKeyStore keeps api-key -> groups assignments in Redis sets
// (key: apikeygroups:{keyID}) so group changes take effect across processes
// without a redeploy.
type RedisAPIKeyStore struct {
	client *redis.Client
	keyFmt string // format string, e.g. "apikeygroups:%s"
}

func NewRedisAPIKeyStore(client *redis.Client) *RedisAPIKeyStore {
	return &RedisAPIKeyStore{client: client, keyFmt: "apikeygroups:%s"}
}

func (r *RedisAPIKeyStore) key(keyID string) string {
	return fmt.Sprintf(r.keyFmt, keyID)
}

func (r *RedisAPIKeyStore) AssignGroup(ctx context.Context, keyID, group string) error {
	return r.client.SAdd(ctx, r.key(keyID), group).Err()
}

func (r *RedisAPIKeyStore) RevokeGroup(ctx context.Context, keyID, group string) error {
	return r.client.SRem(ctx, r.key(keyID), group).Err()
}

func (r *RedisAPIKeyStore) ListGroups(ctx context.Context, keyID string) ([]string, error) {
	res, err := r.client.SMembers(ctx, r.key(keyID)).Result()
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Context assembles the APIKeyContext for a validated key id, ready for
// permits.FromAPIKeyContext. A key with no stored groups gets the ApiClient
// default at principal-build time.
func (r *RedisAPIKeyStore) Context(ctx context.Context, keyID, clientName string) (permits.APIKeyContext, error) {
	groups, err := r.ListGroups(ctx, keyID)
	if err != nil {
		return permits.APIKeyContext{}, err
	}
	return permits.APIKeyContext{KeyID: keyID, ClientName: clientName, Groups: groups}, nil
}
