package plugins

import (
	"encoding/json"

	"github.com/kolibry/kolibry/internal/resolve"
	"github.com/kolibry/kolibry/pkg/types"
)

// Define maps options to compile-time symbols. Every value is a JSON literal
// so the host can substitute it verbatim.
func Define(opts *types.ResolvedOptions) map[string]string {
	cfg := opts.Data.Config
	mode := opts.Mode

	return map[string]string{
		"__DEV__":                              jsonLiteral(mode == types.ModeDev),
		"__KOLIBRI_CLIENT_ROOT__":              jsonLiteral(resolve.ToAtFS(opts.ClientRoot)),
		"__KOLIBRI_HASH_ROUTE__":               jsonLiteral(cfg.RouterMode == "hash"),
		"__KOLIBRI_FEATURE_DRAWINGS__":         jsonLiteral(cfg.Drawings.Enabled.ActiveIn(mode)),
		"__KOLIBRI_FEATURE_EDITOR__":           jsonLiteral(mode == types.ModeDev && (cfg.Editor == nil || *cfg.Editor)),
		"__KOLIBRI_FEATURE_DRAWINGS_PERSIST__": jsonLiteral(cfg.Drawings.Persist.IsTrue()),
		"__KOLIBRI_FEATURE_RECORD__":           jsonLiteral(cfg.Record.ActiveIn(mode)),
		"__KOLIBRI_FEATURE_PRESENTER__":        jsonLiteral(cfg.Presenter.ActiveIn(mode)),
		"__KOLIBRI_HAS_SERVER__":               jsonLiteral(mode != types.ModeBuild),
	}
}

func jsonLiteral(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// bools and strings always marshal
		panic(err)
	}
	return string(data)
}
