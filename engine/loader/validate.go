package loader

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// ValidationReport summarizes one parsed mesh. Counts exclude the parser's dummy entries.
type ValidationReport struct {
	Name         string
	Positions    int
	Normals      int
	TexCoords    int
	Faces        int
	Corners      int
	NonTriangles int // faces with other than three corners
	Err          error
}

func (l *loader) Validate(names []string) []ValidationReport {
	reports := make([]ValidationReport, len(names))
	if len(names) == 0 {
		return reports
	}

	pool := worker.NewDynamicWorkerPool(l.workers, len(names), time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: name,
			Do: func() (any, error) {
				defer wg.Done()
				reports[i] = l.validate(name)
				return reports[i], reports[i].Err
			},
		})
	}
	wg.Wait()

	for _, r := range reports {
		if r.Err != nil {
			l.logger.Error().Str("mesh", r.Name).Err(r.Err).Msg("mesh validation failed")
			continue
		}
		if r.NonTriangles > 0 {
			l.logger.Warn().Str("mesh", r.Name).Int("faces", r.NonTriangles).Msg("mesh has non-triangle faces")
		}
	}
	return reports
}

func (l *loader) validate(name string) ValidationReport {
	mesh, err := l.parse(name)
	if err != nil {
		return ValidationReport{Name: name, Err: err}
	}

	r := ValidationReport{
		Name:      name,
		Positions: mesh.PositionCount() - 1,
		Normals:   mesh.NormalCount() - 1,
		TexCoords: mesh.TexCoordCount() - 1,
		Faces:     mesh.FaceCount(),
		Corners:   mesh.IndexCount(),
	}
	for _, n := range mesh.FaceVertices {
		if n != 3 {
			r.NonTriangles++
		}
	}
	return r
}
