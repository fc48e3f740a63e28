package login

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clawkeep/clawkeep/pkg/runlog"
)

// Shot is one captured screenshot, in capture order.
type Shot struct {
	Seq  int
	File string
}

// Shooter writes counter-named PNG screenshots and records what it captured
// so the notification can attach them later. Capture failures are logged
// and never abort the run.
type Shooter struct {
	dir   string
	log   *runlog.Log
	count int
	shots []Shot
}

func NewShooter(dir string, log *runlog.Log) *Shooter {
	return &Shooter{dir: dir, log: log}
}

func (s *Shooter) Capture(page Page, label string) {
	data, err := page.Screenshot()
	if err != nil {
		s.log.Warn("screenshot %q failed: %v", label, err)
		return
	}

	s.count++
	name := fmt.Sprintf("%02d_%s.png", s.count, label)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Warn("could not save screenshot %s: %v", name, err)
		s.count--
		return
	}

	s.shots = append(s.shots, Shot{Seq: s.count, File: path})
	s.log.Info("screenshot: %s", name)
}

func (s *Shooter) Shots() []Shot {
	out := make([]Shot, len(s.shots))
	copy(out, s.shots)
	return out
}

func (s *Shooter) Last() (Shot, bool) {
	if len(s.shots) == 0 {
		return Shot{}, false
	}
	return s.shots[len(s.shots)-1], true
}
