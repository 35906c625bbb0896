// Command fontinspect prints the resolved font catalog and, for any font
// names given as arguments, which file each would resolve to.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/previewstudio/preview-renderer/internal/fonts"
)

func main() {
	fontsDir := flag.String("fonts-dir", "", "Extra directory scanned for font files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	catalog, err := fonts.New(logger, fonts.DefaultDirs(*fontsDir)...)
	if err != nil {
		log.Fatalf("Failed to build font catalog: %v", err)
	}

	fmt.Println("=== Font Catalog ===")
	fmt.Println()
	for _, name := range catalog.Names() {
		path, _ := catalog.Path(name)
		fmt.Printf("  %-40s %s\n", name, path)
	}
	fmt.Printf("\n%d fonts cataloged\n", catalog.Len())

	if flag.NArg() > 0 {
		fmt.Println("\n=== Resolution ===")
		fmt.Println()
		for _, name := range flag.Args() {
			if path, ok := catalog.ResolveSource(name); ok {
				fmt.Printf("  %-40s -> %s\n", name, path)
			} else {
				fmt.Printf("  %-40s -> bundled default\n", name)
			}
		}
	}
}
