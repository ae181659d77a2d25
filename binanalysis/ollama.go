package binanalysis

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
)

// ollamaManifest mirrors the subset of Ollama's manifest JSON shape needed
// to sum a model's real on-disk size: a list of content-addressed layers,
// each backed by a blob file under models/blobs.
type ollamaManifest struct {
	Layers []struct {
		Digest string `json:"digest"`
		Size   int64  `json:"size"`
	} `json:"layers"`
	Config struct {
		Digest string `json:"digest"`
		Size   int64  `json:"size"`
	} `json:"config"`
}

// ScanOllamaModels walks an Ollama models directory (~/.ollama/models by
// default) and returns one CleanableItem per manifest found, with Bytes set
// to the sum of the manifest's referenced blob sizes rather than the
// manifest file's own (tiny) size: the real manifest JSON is parsed and its
// referenced blob sizes summed, falling back to on-disk blob size when the
// manifest's own size field is zero or missing. This replaces the proxy of
// multiplying the manifest file's own size by a constant factor.
func ScanOllamaModels(modelsDir string) ([]model.CleanableItem, error) {
	manifestsDir := filepath.Join(modelsDir, "manifests")
	if !pathutil.IsDir(manifestsDir) {
		return nil, nil
	}

	var out []model.CleanableItem
	err := filepath.WalkDir(manifestsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		var manifest ollamaManifest
		if jsonErr := json.Unmarshal(data, &manifest); jsonErr != nil {
			return nil
		}

		var total int64
		total += blobSize(modelsDir, manifest.Config.Digest, manifest.Config.Size)
		for _, layer := range manifest.Layers {
			total += blobSize(modelsDir, layer.Digest, layer.Size)
		}
		if total == 0 {
			return nil
		}

		modTime := pathutil.ModTime(path)
		tagPath, _ := filepath.Rel(manifestsDir, path)
		out = append(out, model.CleanableItem{
			Name:         tagPath,
			Category:     "home-cache",
			Subcategory:  "ollama-model",
			Icon:         "model",
			Path:         path,
			Bytes:        total,
			LastModified: &modTime,
			Safety:       model.SafetyLevelSafeWithCost,
			SuggestedCmd: "ollama pull <model>",
		})
		return nil
	})
	return out, err
}

// blobSize prefers the manifest-declared size and falls back to statting
// the actual blob file on disk when the manifest omits or zeroes it.
func blobSize(modelsDir, digest string, declared int64) int64 {
	if declared > 0 {
		return declared
	}
	if digest == "" {
		return 0
	}
	blobName := digestToBlobName(digest)
	info, err := os.Stat(filepath.Join(modelsDir, "blobs", blobName))
	if err != nil {
		return 0
	}
	return info.Size()
}

// digestToBlobName converts a manifest "sha256:abcd..." digest into
// Ollama's on-disk blob filename convention "sha256-abcd...".
func digestToBlobName(digest string) string {
	out := make([]byte, len(digest))
	copy(out, digest)
	for i, c := range out {
		if c == ':' {
			out[i] = '-'
		}
	}
	return string(out)
}
