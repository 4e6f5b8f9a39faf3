// scan_watcher processes card photos that were dropped into the upload
// directory out-of-band (bulk imports, re-processing after a failed inline
// scan). It watches uploads/cards/<cardID>/ recursively, runs recognition and
// extraction on new images, and fills the card fields the same way the
// inline scan endpoint does. The security code is never persisted.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cardwallet/models"
	"cardwallet/pkg/capture"
	"cardwallet/pkg/cardscan"
)

var db *gorm.DB

var (
	verbose bool
	strict  bool
)

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	return gdb
}

func main() {
	var dir string
	var workers int
	var once bool
	flag.StringVar(&dir, "dir", "uploads/cards", "card upload directory to watch")
	flag.IntVar(&workers, "workers", 2, "concurrent scan workers")
	flag.BoolVar(&once, "once", false, "process existing files and exit")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.BoolVar(&strict, "strict", false, "drop card numbers that fail the checksum")
	flag.Parse()

	db = mustInitDBFromEnv()

	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range fileCh {
				processImage(path)
			}
		}()
	}

	for _, p := range listImageFiles(dir) {
		fileCh <- p
	}
	if once {
		close(fileCh)
		wg.Wait()
		return
	}

	if err := watchDirectory(dir, fileCh); err != nil {
		log.Fatalf("watch %s: %v", dir, err)
	}
}

// listImageFiles collects existing card images under dir, one level of
// per-card subdirectories deep.
func listImageFiles(dir string) []string {
	var out []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			if isSupportedExt(e.Name()) {
				out = append(out, filepath.Join(dir, e.Name()))
			}
			continue
		}
		sub, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		for _, f := range sub {
			if !f.IsDir() && isSupportedExt(f.Name()) {
				out = append(out, filepath.Join(dir, e.Name(), f.Name()))
			}
		}
	}
	return out
}

func watchDirectory(dir string, fileCh chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	for _, e := range listSubdirs(dir) {
		_ = w.Add(e)
	}
	log.Printf("Watching %s (debounced) ...", dir)

	// debounce so half-written files settle before processing
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.Add(ev.Name)
					continue
				}
				if isSupportedExt(filepath.Base(ev.Name)) {
					pending[ev.Name] = time.Now()
				}
			}
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					fileCh <- path
					delete(pending, path)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func listSubdirs(dir string) []string {
	var out []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

func isSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

// processImage runs recognition+extraction for one dropped file. The card id
// comes from the parent directory name (uploads/cards/<cardID>/photo.png);
// the side from a "_back" suffix in the file name, front otherwise.
func processImage(path string) {
	cardID := cardIDFromPath(path)
	if cardID == 0 {
		if verbose {
			log.Printf("skip %s: no card id in path", path)
		}
		return
	}
	var card models.Card
	if err := db.First(&card, cardID).Error; err != nil {
		log.Printf("skip %s: card %d not found", path, cardID)
		return
	}
	side := cardscan.SideFront
	if strings.Contains(strings.ToLower(filepath.Base(path)), "_back") {
		side = cardscan.SideBack
	}

	scan := models.ScanImage{
		FileName:  filepath.Base(path),
		StorePath: path,
		CardID:    card.ID,
		Side:      side.String(),
	}
	// idempotent: an already-recorded file name for this card is done
	var existing models.ScanImage
	if err := db.Where("card_id = ? AND file_name = ?", card.ID, scan.FileName).First(&existing).Error; err == nil {
		if existing.Processed || existing.Failed {
			return
		}
		scan = existing
	} else if err := db.Create(&scan).Error; err != nil {
		log.Printf("record %s: %v", path, err)
		return
	}

	text, err := capture.RecognizeCardText(path)
	if err != nil {
		db.Model(&scan).Updates(map[string]interface{}{"failed": true, "failed_reason": err.Error()})
		return
	}
	cat := cardscan.Category{Kind: cardscan.KindFromString(card.Category)}
	if cat.Kind == cardscan.KindCustom {
		cat = cardscan.Custom(card.CustomName, card.CustomColor)
	}
	fields := cardscan.ExtractWithOptions(text, cat, side, cardscan.Options{StrictLuhn: strict})
	if len(fields) == 0 {
		db.Model(&scan).Updates(map[string]interface{}{"failed": true, "failed_reason": "no fields recognized"})
		return
	}
	updates := map[string]interface{}{}
	if v, ok := fields[cardscan.FieldCardNumber]; ok {
		updates["number"] = v
	}
	if v, ok := fields[cardscan.FieldExpiryDate]; ok {
		updates["expiry_date"] = v
	}
	if v, ok := fields[cardscan.FieldCardholderName]; ok {
		updates["holder_name"] = v
	}
	if len(updates) > 0 {
		if err := db.Model(&card).Updates(updates).Error; err != nil {
			log.Printf("update card %d: %v", card.ID, err)
			return
		}
	}
	db.Model(&scan).Update("processed", true)
	if verbose {
		log.Printf("processed %s: %d field(s)", path, len(fields))
	}
}

func cardIDFromPath(path string) uint {
	parent := filepath.Base(filepath.Dir(path))
	id, err := strconv.ParseUint(parent, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
