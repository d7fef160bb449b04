// Command gerberview-cli converts a Gerber or Excellon file to a triangle
// mesh and reports its stats, optionally writing the mesh out as a
// Wavefront OBJ file for inspection in an external viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/SohaibAli9/gerberview"
)

var (
	objPath    string
	excellon   bool
)

func main() {
	flag.StringVar(&objPath, "obj", "", "write the resulting mesh to this Wavefront OBJ path")
	flag.BoolVar(&excellon, "drill", false, "treat the input as an Excellon NC drill file instead of Gerber")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: gerberview-cli [options] <path_to_gerber_or_drill_file>")
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println("Example: gerberview-cli -obj board.obj MyPCB.GTL")
		os.Exit(1)
	}

	inputPath := args[0]

	fmt.Printf("Reading %s...\n", inputPath)
	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("Error reading input: %v", err)
	}

	isDrill := excellon || isDrillExtension(inputPath)

	var meta gerberview.Meta
	if isDrill {
		fmt.Println("Parsing as Excellon drill file...")
		meta, err = gerberview.ConvertExcellon(data)
	} else {
		fmt.Println("Parsing as Gerber RS-274X file...")
		meta, err = gerberview.ConvertGerber(data)
	}
	if err != nil {
		log.Fatalf("Error converting file: %v", err)
	}

	fmt.Printf("Vertices: %d  Triangles: %d  Commands: %d\n", meta.VertexCount, meta.IndexCount/3, meta.CommandCount)
	fmt.Printf("Bounds: (%.4f, %.4f) - (%.4f, %.4f) mm\n", meta.Bounds.MinX, meta.Bounds.MinY, meta.Bounds.MaxX, meta.Bounds.MaxY)

	if meta.WarningCount > 0 {
		fmt.Printf("%d warning(s):\n", meta.WarningCount)
		for _, w := range meta.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	if objPath != "" {
		fmt.Printf("Writing mesh to %s...\n", objPath)
		if err := writeOBJ(objPath, gerberview.GetPositions(), gerberview.GetIndices()); err != nil {
			log.Fatalf("Error writing OBJ: %v", err)
		}
	}

	fmt.Println("Done.")
}

func isDrillExtension(path string) bool {
	switch strings.ToUpper(filepath.Ext(path)) {
	case ".DRL", ".TXT", ".XLN", ".NC":
		return true
	default:
		return false
	}
}

// writeOBJ writes a triangle mesh as a Wavefront OBJ file. OBJ vertex
// indices are 1-based, unlike the mesh's own 0-based index buffer.
func writeOBJ(path string, positions []float32, indices []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	f.WriteString("# gerberview-cli mesh export\n")
	for i := 0; i+1 < len(positions); i += 2 {
		fmt.Fprintf(f, "v %f %f 0.0\n", positions[i], positions[i+1])
	}
	for i := 0; i+2 < len(indices); i += 3 {
		fmt.Fprintf(f, "f %d %d %d\n", indices[i]+1, indices[i+1]+1, indices[i+2]+1)
	}

	return nil
}
