package kernel

import (
	"encoding/json"

	"github.com/module/kvengine/kverrors"
)

// Control implements the admin/introspection request-response channel of
// original_source's ukv_control -- stubbed there as UNSUPPORTED, but with a
// "stats" request recognized here and grounded on the teacher's
// monitoring.go TableStats diagnostic.
func (k *Kernel) Control(req string) (string, *kverrors.Error) {
	switch req {
	case "stats":
		stats := k.db.Stats()
		b, err := json.Marshal(stats)
		if err != nil {
			return "", kverrors.Wrap(kverrors.BadArg, err, "marshaling stats")
		}
		return string(b), nil
	default:
		return "", kverrors.New(kverrors.Unsupported, "control request %q not implemented", req)
	}
}
