package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/menta2k/bookcrop"
	"github.com/menta2k/bookcrop/internal/config"
	"github.com/menta2k/bookcrop/pkg/crop"
	"github.com/menta2k/bookcrop/pkg/engine"
	"github.com/menta2k/bookcrop/pkg/export"
	"github.com/menta2k/bookcrop/pkg/loader"
	"github.com/menta2k/bookcrop/pkg/persist"
)

func main() {
	var in, out, cfgPath, ext string
	var doInit, double, lossless bool
	var width, height, quality int

	flag.StringVar(&in, "in", "", "source folder of scanned pages")
	flag.StringVar(&out, "out", "out", "output folder for cropped images")
	flag.StringVar(&cfgPath, "config", "", "optional config file (JSON)")

	flag.BoolVar(&doInit, "init", false, "write a default crop_data.json for the folder instead of exporting")
	flag.IntVar(&width, "width", 0, "crop width for -init (100-5000, default from config)")
	flag.IntVar(&height, "height", 0, "crop height for -init (100-5000, default from config)")
	flag.BoolVar(&double, "double", false, "initialize pages in double-page mode")

	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp (default: keep source extension)")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in folder [-init [-width N -height N -double]] [-out outdir] [-ext jpg|png|webp]", filepath.Base(os.Args[0]))
	}

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		if err := loaded.Validate(); err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	if width == 0 {
		width = cfg.Crop.DefaultWidth
	}
	if height == 0 {
		height = cfg.Crop.DefaultHeight
	}
	if ext == "" {
		ext = cfg.Export.Format
	}
	if quality == 0 {
		quality = cfg.Export.Quality
	}

	if doInit {
		initDocument(in, width, height, double || cfg.Crop.DoublePage)
		return
	}

	session, err := bookcrop.OpenFolder(in)
	if err != nil {
		log.Fatal(err)
	}
	for _, name := range session.Skipped() {
		log.Printf("skipped unreadable image: %s", name)
	}

	errs := session.Export(out, export.Options{
		Format:   ext,
		Quality:  quality,
		Lossless: lossless || cfg.Export.Lossless,
	})
	for _, err := range errs {
		log.Printf("export: %v", err)
	}

	exported := len(session.Files()) - len(errs)
	log.Printf("exported %d of %d pages to %s", exported, len(session.Files()), out)
}

// initDocument lays out default crop boxes for every page and writes a
// fresh crop_data.json next to the images.
func initDocument(dir string, width, height int, double bool) {
	l, err := loader.Open(dir)
	if err != nil {
		log.Fatal(err)
	}
	if len(l.Files()) == 0 {
		log.Fatalf("no supported images in %s", dir)
	}
	for _, name := range l.Skipped() {
		log.Printf("skipped unreadable image: %s", name)
	}

	st := engine.NewState()
	st.Settings = crop.Settings{Width: width, Height: height}
	if err := st.Settings.Validate(); err != nil {
		log.Fatal(err)
	}
	st.DoublePage = double

	e := engine.New(l)
	e.Restore(st)
	e.InitializeAll()

	path := filepath.Join(dir, persist.DocumentName)
	if err := persist.Save(path, e.Snapshot(), l.Files()); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d pages, %dx%d)", path, len(l.Files()), width, height)
}
