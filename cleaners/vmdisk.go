package cleaners

import (
	"os"
	"path/filepath"

	"github.com/tinyland-lab/reclaim/model"
	"github.com/tinyland-lab/reclaim/pathutil"
	"github.com/tinyland-lab/reclaim/pkg/fsops"
)

// vmDiskImage is one well-known sparse VM disk image location: Lima's and
// Docker Desktop's backing stores are large raw/qcow2 files whose apparent
// size routinely overstates what they actually occupy on disk once the
// guest has deleted files inside the image.
type vmDiskImage struct {
	relGlob     string
	subcategory string
}

func vmDiskImages() []vmDiskImage {
	return []vmDiskImage{
		{relGlob: filepath.Join(".lima", "*", "diffdisk"), subcategory: "lima-diskimage"},
		{relGlob: filepath.Join(".docker", "desktop-vm", "data", "Docker.raw"), subcategory: "docker-desktop-diskimage"},
		{relGlob: filepath.Join("Library", "Containers", "com.docker.docker", "Data", "vms", "0", "data", "Docker.raw"), subcategory: "docker-desktop-diskimage"},
	}
}

// VMDiskImages reports every matching VM disk image found under home whose
// allocated size (fsops.GetActualSize) is non-zero, and estimates the bytes
// compaction could reclaim as the total of its zero regions. Holes that are
// already punched read as zeros, so they are included in that estimate.
func VMDiskImages(home string) []model.CleanableItem {
	var out []model.CleanableItem
	for _, v := range vmDiskImages() {
		matches, err := filepath.Glob(filepath.Join(home, v.relGlob))
		if err != nil {
			continue
		}
		for _, path := range matches {
			item, ok := vmDiskItem(path, v.subcategory)
			if ok {
				out = append(out, item)
			}
		}
	}
	return out
}

func vmDiskItem(path, subcategory string) (model.CleanableItem, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return model.CleanableItem{}, false
	}

	actual, err := fsops.GetActualSize(path)
	if err != nil {
		actual = info.Size()
	}
	if actual == 0 {
		return model.CleanableItem{}, false
	}

	var reclaimable int64
	if regions, err := fsops.ScanZeroRegions(path, fsops.DefaultBlockSize); err == nil {
		for _, r := range regions {
			reclaimable += r.Length
		}
	}
	if reclaimable == 0 {
		return model.CleanableItem{}, false
	}

	modTime := pathutil.ModTime(path)
	desc := "VM disk image with reclaimable zero-filled space; compact with the owning tool's shrink command"

	return model.CleanableItem{
		Name:         filepath.Base(path),
		Category:     "vm-disk",
		Subcategory:  subcategory,
		Icon:         "vm",
		Path:         path,
		Bytes:        reclaimable,
		LastModified: &modTime,
		Description:  desc,
		Safety:       model.SafetyLevelCaution,
		SuggestedCmd: "stop the VM, then run its shrink/compact command",
	}, true
}
