// Package manifest resolves which paths of a game are tracked. The
// authoritative document is a per-game JSON file on a remote host; it is
// fetched once, cached inside the store, and can be superseded entirely
// by a hand-edited YAML override next to the cache.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/savesync/pkg/errors"
	"github.com/arthur-debert/savesync/pkg/logging"
	"github.com/arthur-debert/savesync/pkg/paths"
	"github.com/arthur-debert/savesync/pkg/types"
)

// Document is the manifest wire format. Target entries prefixed with "/"
// denote directories, bare names denote files.
type Document struct {
	Game    string   `json:"game" yaml:"game"`
	Targets []string `json:"targets" yaml:"targets"`
}

// Loader resolves sync targets for discovered games
type Loader struct {
	paths   *paths.Paths
	baseURL string
	client  *http.Client
}

// NewLoader creates a Loader fetching from baseURL with a bounded timeout
func NewLoader(p *paths.Paths, baseURL string, timeout time.Duration) *Loader {
	return &Loader{
		paths:   p,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Load returns the sync targets for a game. Resolution order: local YAML
// override, cached JSON, network fetch (which refreshes the cache). No
// source at all is fatal during setup.
func (l *Loader) Load(game *types.GameFolder) ([]types.SyncTarget, error) {
	logger := logging.GetLogger("manifest")

	if doc, ok := l.loadOverride(game.ID); ok {
		logger.Debug().Str("game", game.ID).Msg("Using local manifest override")
		return parseTargets(doc), nil
	}

	if doc, ok := l.loadCache(game.ID); ok {
		logger.Debug().Str("game", game.ID).Msg("Using cached manifest")
		return parseTargets(doc), nil
	}

	doc, err := l.fetch(game.ID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFetch, "no sync configuration obtainable").
			WithDetail("game", game.ID)
	}

	logger.Info().Str("game", game.ID).Int("targets", len(doc.Targets)).Msg("Fetched manifest")
	return parseTargets(doc), nil
}

func (l *Loader) loadOverride(gameID string) (*Document, bool) {
	data, err := os.ReadFile(l.paths.ManifestOverridePath(gameID))
	if err != nil {
		return nil, false
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		logger := logging.GetLogger("manifest")
		logger.Warn().
			Err(err).
			Str("game", gameID).
			Msg("Ignoring unparseable manifest override")
		return nil, false
	}
	return &doc, true
}

func (l *Loader) loadCache(gameID string) (*Document, bool) {
	data, err := os.ReadFile(l.paths.ManifestCachePath(gameID))
	if err != nil {
		return nil, false
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	return &doc, true
}

// fetch retrieves the manifest over HTTP and writes it to the cache
func (l *Loader) fetch(gameID string) (*Document, error) {
	url := fmt.Sprintf("%s/%s.json", l.baseURL, gameID)

	resp, err := l.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest fetch returned %s for %s", resp.Status, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("manifest at %s is not valid JSON: %w", url, err)
	}

	cachePath := l.paths.ManifestCachePath(gameID)
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err == nil {
		if werr := os.WriteFile(cachePath, data, 0644); werr != nil {
			logger := logging.GetLogger("manifest")
			logger.Warn().
				Err(werr).
				Str("path", cachePath).
				Msg("Could not cache manifest")
		}
	}

	return &doc, nil
}

func parseTargets(doc *Document) []types.SyncTarget {
	targets := make([]types.SyncTarget, 0, len(doc.Targets))
	for _, entry := range doc.Targets {
		if entry == "" {
			continue
		}
		targets = append(targets, types.ParseSyncTarget(entry))
	}
	return targets
}
