package obj

import (
	"bytes"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const defaultChunkSize = 64 * 1024

// parser holds the state of one Read call.
type parser struct {
	fs      FileSystem
	baseDir string
	mesh    *Mesh

	material uint32
	object   Group
	group    Group
	line     int
}

// Read parses the OBJ file at path, pulling bytes through fs. Material libraries named by
// mtllib statements are opened through the same FileSystem; libraries that cannot be
// opened are skipped.
//
// Parameters:
//   - path: the mesh path passed to fs.Open
//   - fs: the file system serving the mesh and its material libraries
//
// Returns:
//   - *Mesh: the parsed mesh
//   - error: ErrNoFile when the mesh cannot be opened, or a malformed-data error
func Read(path string, fs FileSystem) (*Mesh, error) {
	return read(path, fs, defaultChunkSize)
}

func read(p string, fs FileSystem, chunkSize int) (*Mesh, error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()

	ps := &parser{
		fs:      fs,
		baseDir: path.Dir(p),
		mesh:    newMesh(),
	}
	if err := readLines(f, chunkSize, ps.parseLine); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", p, err)
	}
	ps.flushObject()
	ps.flushGroup()
	return ps.mesh, nil
}

// readLines pulls f in chunks and hands every complete line to fn. A line may span
// any number of chunks.
func readLines(f File, chunkSize int, fn func(line []byte) error) error {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if size := f.Size(); size > 0 && size < uint64(chunkSize) {
		chunkSize = int(size)
	}

	buf := make([]byte, chunkSize)
	var pending []byte
	for {
		n := f.Read(buf)
		if n == 0 {
			break
		}
		pending = append(pending, buf[:n]...)

		last := bytes.LastIndexByte(pending, '\n')
		if last < 0 {
			continue
		}
		for _, line := range bytes.Split(pending[:last], []byte{'\n'}) {
			if err := fn(line); err != nil {
				return err
			}
		}
		pending = append(pending[:0], pending[last+1:]...)
	}
	if len(pending) > 0 {
		return fn(pending)
	}
	return nil
}

func (ps *parser) parseLine(raw []byte) error {
	ps.line++
	line := strings.TrimSpace(string(bytes.TrimSuffix(raw, []byte{'\r'})))
	if line == "" || line[0] == '#' {
		return nil
	}
	fields := strings.Fields(line)
	rest := strings.TrimSpace(line[len(fields[0]):])

	switch fields[0] {
	case "v":
		return ps.parseFloats(&ps.mesh.Positions, fields[1:], 3)
	case "vt":
		return ps.parseFloats(&ps.mesh.TexCoords, fields[1:], 2)
	case "vn":
		return ps.parseFloats(&ps.mesh.Normals, fields[1:], 3)
	case "f":
		return ps.parseFace(fields[1:])
	case "o":
		ps.flushObject()
		ps.object = ps.beginGroup(rest)
	case "g":
		ps.flushGroup()
		ps.group = ps.beginGroup(rest)
	case "usemtl":
		ps.material = ps.materialIndex(rest)
	case "mtllib":
		for _, lib := range fields[1:] {
			ps.loadMaterialLibrary(lib)
		}
	}
	return nil
}

func (ps *parser) parseFloats(dst *[]float32, fields []string, n int) error {
	if len(fields) < n {
		return fmt.Errorf("line %d: %w: want %d components, got %d", ps.line, ErrMalformedVertex, n, len(fields))
	}
	for _, s := range fields[:n] {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return fmt.Errorf("line %d: %w: %q", ps.line, ErrMalformedVertex, s)
		}
		*dst = append(*dst, float32(v))
	}
	return nil
}

func (ps *parser) parseFace(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("line %d: %w: %d corners", ps.line, ErrMalformedFace, len(corners))
	}
	m := ps.mesh
	for _, c := range corners {
		parts := strings.Split(c, "/")
		if len(parts) > 3 || parts[0] == "" {
			return fmt.Errorf("line %d: %w: %q", ps.line, ErrMalformedFace, c)
		}

		var idx Index
		var err error
		if idx.P, err = ps.resolveIndex(parts[0], m.PositionCount()); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if idx.T, err = ps.resolveIndex(parts[1], m.TexCoordCount()); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if idx.N, err = ps.resolveIndex(parts[2], m.NormalCount()); err != nil {
				return err
			}
		}
		m.Indices = append(m.Indices, idx)
	}
	m.FaceVertices = append(m.FaceVertices, uint32(len(corners)))
	m.FaceMaterials = append(m.FaceMaterials, ps.material)
	ps.object.FaceCount++
	ps.group.FaceCount++
	return nil
}

// resolveIndex converts a 1-based or negative relative OBJ index into an array index.
// count includes the dummy entry, so -1 resolves to the last real entry.
func (ps *parser) resolveIndex(s string, count int) (uint32, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("line %d: %w: index %q", ps.line, ErrMalformedFace, s)
	}
	if v < 0 {
		v += count
	}
	if v <= 0 || v >= count {
		return 0, fmt.Errorf("line %d: %w: %s of %d", ps.line, ErrIndexOutOfRange, s, count-1)
	}
	return uint32(v), nil
}

func (ps *parser) beginGroup(name string) Group {
	return Group{
		Name:        name,
		FaceOffset:  uint32(len(ps.mesh.FaceVertices)),
		IndexOffset: uint32(len(ps.mesh.Indices)),
	}
}

func (ps *parser) flushObject() {
	if ps.object.FaceCount > 0 {
		ps.mesh.Objects = append(ps.mesh.Objects, ps.object)
	}
	ps.object = ps.beginGroup("")
}

func (ps *parser) flushGroup() {
	if ps.group.FaceCount > 0 {
		ps.mesh.Groups = append(ps.mesh.Groups, ps.group)
	}
	ps.group = ps.beginGroup("")
}

func (ps *parser) materialIndex(name string) uint32 {
	for i, mat := range ps.mesh.Materials {
		if mat.Name == name {
			return uint32(i)
		}
	}
	ps.mesh.Materials = append(ps.mesh.Materials, Material{Name: name, Kd: [3]float32{1, 1, 1}})
	return uint32(len(ps.mesh.Materials) - 1)
}
