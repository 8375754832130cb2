package obj

import (
	"path"
	"strconv"
	"strings"
)

// loadMaterialLibrary opens lib relative to the mesh file and merges its materials into
// the mesh. Libraries that cannot be opened or parsed are skipped, matching how viewers
// treat missing .mtl files.
func (ps *parser) loadMaterialLibrary(lib string) {
	p := lib
	if ps.baseDir != "." && !path.IsAbs(lib) {
		p = path.Join(ps.baseDir, lib)
	}
	f, err := ps.fs.Open(p)
	if err != nil {
		return
	}
	defer f.Close()

	var current *Material
	_ = readLines(f, defaultChunkSize, func(raw []byte) error {
		fields := strings.Fields(strings.TrimSpace(string(raw)))
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			return nil
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				return nil
			}
			idx := ps.materialIndex(fields[1])
			current = &ps.mesh.Materials[idx]
			current.Fetched = true
		case "Kd":
			if current == nil || len(fields) < 4 {
				return nil
			}
			for i := 0; i < 3; i++ {
				if v, err := strconv.ParseFloat(fields[i+1], 32); err == nil {
					current.Kd[i] = float32(v)
				}
			}
		case "map_Kd":
			if current != nil && len(fields) > 1 {
				current.MapKd = fields[len(fields)-1]
			}
		}
		return nil
	})
}
