// Package persist serializes the crop-geometry state of a source folder to
// a single JSON document and restores it best-effort: a malformed or
// partially missing document never fails a load, each field simply falls
// back to its default.
package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/menta2k/bookcrop/pkg/crop"
	"github.com/menta2k/bookcrop/pkg/engine"
)

// DocumentName is the filename of the crop document, written next to the
// source images.
const DocumentName = "crop_data.json"

// settingsKey is the reserved top-level key holding global settings; every
// other top-level key is an image filename.
const settingsKey = "_settings"

// settingsDoc mirrors the persisted settings record. Pointer fields let
// each setting restore independently when absent from an older document.
type settingsDoc struct {
	CropWidth             *int                  `json:"crop_width,omitempty"`
	CropHeight            *int                  `json:"crop_height,omitempty"`
	IsDoublePage          *bool                 `json:"is_double_page,omitempty"`
	ManuallyAdjustedPages []int                 `json:"manually_adjusted_pages"`
	ImageModes            map[string]bool       `json:"image_modes"`
	MasterPositions       *crop.MasterPositions `json:"master_positions,omitempty"`
}

// Marshal serializes a state snapshot. Manually adjusted pages are written
// as indices into fileOrder, the sorted image list of the source folder.
func Marshal(st engine.State, fileOrder []string) ([]byte, error) {
	doc := make(map[string]any, len(st.Crops)+1)
	for name, pc := range st.Crops {
		doc[name] = pc
	}

	indexOf := make(map[string]int, len(fileOrder))
	for i, name := range fileOrder {
		indexOf[name] = i
	}
	adjusted := make([]int, 0, len(st.Adjusted))
	for _, name := range st.Adjusted {
		if i, ok := indexOf[name]; ok {
			adjusted = append(adjusted, i)
		}
	}

	width, height := st.Settings.Width, st.Settings.Height
	double := st.DoublePage
	masters := st.Masters
	modes := st.Modes
	if modes == nil {
		modes = map[string]bool{}
	}
	doc[settingsKey] = settingsDoc{
		CropWidth:             &width,
		CropHeight:            &height,
		IsDoublePage:          &double,
		ManuallyAdjustedPages: adjusted,
		ImageModes:            modes,
		MasterPositions:       &masters,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal crop document: %w", err)
	}
	return data, nil
}

// Unmarshal restores a state snapshot from document bytes. Loading is
// best-effort: malformed data yields an empty state, a missing settings
// record leaves defaults in place, and adjusted-page indices outside
// fileOrder are dropped.
func Unmarshal(data []byte, fileOrder []string) engine.State {
	st := engine.NewState()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return st
	}

	if msg, ok := raw[settingsKey]; ok {
		var sd settingsDoc
		if err := json.Unmarshal(msg, &sd); err == nil {
			if sd.CropWidth != nil {
				st.Settings.Width = *sd.CropWidth
			}
			if sd.CropHeight != nil {
				st.Settings.Height = *sd.CropHeight
			}
			if sd.IsDoublePage != nil {
				st.DoublePage = *sd.IsDoublePage
			}
			for _, idx := range sd.ManuallyAdjustedPages {
				if idx >= 0 && idx < len(fileOrder) {
					st.Adjusted = append(st.Adjusted, fileOrder[idx])
				}
			}
			for name, double := range sd.ImageModes {
				st.Modes[name] = double
			}
			if sd.MasterPositions != nil {
				st.Masters = *sd.MasterPositions
			}
		}
		delete(raw, settingsKey)
	}

	for name, msg := range raw {
		var pc crop.PageCrop
		if err := json.Unmarshal(msg, &pc); err != nil {
			continue
		}
		st.Crops[name] = pc
	}
	return st
}

// Save writes the crop document to path.
func Save(path string, st engine.State, fileOrder []string) error {
	data, err := Marshal(st, fileOrder)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write crop document: %w", err)
	}
	return nil
}

// Load reads the crop document at path. A missing or unreadable file yields
// an empty default state; load never fails.
func Load(path string, fileOrder []string) engine.State {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.NewState()
	}
	return Unmarshal(data, fileOrder)
}
