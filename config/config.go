// Package config parses the open(config_str) configuration string of spec
// §6, grounded on ValentinKolb/dKV's cmd/util layered-config use of
// spf13/viper (env + flags + file, here just env + an inline config
// string).
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/module/kvengine/kverrors"
)

// Config is the parsed result of an open(config_str) call.
type Config struct {
	// Path is the snapshot file used for optional persistence (spec §6
	// "Persistence"). Empty means no persistence.
	Path string
	// Verbose enables kvstore's log lines for collection and transaction
	// events (upsert/remove collection, begin, commit, abort).
	Verbose bool
	// IsTesting relaxes durability for throwaway test databases.
	IsTesting bool
}

// Parse accepts either a bare filesystem path (the legacy open(path)
// persistence behavior) or a "key=value;key=value" / JSON config blob,
// loaded through viper. A key=value entry wins over the KV_* env var of the
// same name; a JSON blob is read as a config file, so a set KV_* env var
// wins over its entries, as it would over a real on-disk config file. A
// bare path ignores KV_* env vars.
func Parse(raw string) (Config, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Config{}, nil
	}

	v := viper.New()
	v.SetEnvPrefix("KV")
	v.AutomaticEnv()

	switch {
	case strings.HasPrefix(s, "{"):
		v.SetConfigType("json")
		if err := v.ReadConfig(strings.NewReader(s)); err != nil {
			return Config{}, kverrors.Wrap(kverrors.OpenFailed, err, "parsing JSON config %q", s)
		}
	case strings.Contains(s, "="):
		for _, pair := range strings.Split(s, ";") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			key, val, ok := strings.Cut(pair, "=")
			if !ok {
				return Config{}, kverrors.New(kverrors.BadArg, "malformed config entry %q", pair)
			}
			// Set, not Merge: an explicitly given key=value must win over
			// the env var of the same name, per spec's precedence order.
			v.Set(strings.TrimSpace(key), strings.TrimSpace(val))
		}
	default:
		return Config{Path: s}, nil
	}

	return Config{
		Path:      v.GetString("path"),
		Verbose:   v.GetBool("verbose"),
		IsTesting: v.GetBool("testing"),
	}, nil
}
