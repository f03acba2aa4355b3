package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"git.lost.host/meutraa/beathop/internal/game"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Run is one finished attempt at a stage.
type Run struct {
	Sum     string
	Outcome game.Outcome
	Frames  uint64
	Inputs  []game.Input
	Played  time.Time
}

type Store interface {
	Save(run Run) error
	Load(sum string) ([]Run, error)
	// Best is the quickest clear of a stage.
	Best(sum string) (Run, bool, error)
	Close() error
}

type DefaultStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// Sum identifies a stage by the content of its asset files.
func Sum(files ...[]byte) string {
	h := sha256.New()
	for _, f := range files {
		h.Write(f)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func Open(path string, log *zap.SugaredLogger) (*DefaultStore, error) {
	if nil == log {
		log = zap.NewNop().Sugar()
	}
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists runs
	  (
		  id integer not null primary key,
		  sum text not null,
		  outcome integer not null,
		  frames integer not null,
		  played integer not null,
		  inputs blob
	  );
	create index if not exists runs_sum on runs(sum);
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create score table: %w", err)
	}
	return &DefaultStore{db: db, log: log}, nil
}

func (s *DefaultStore) Close() error {
	return s.db.Close()
}

func (s *DefaultStore) Save(run Run) error {
	data, err := json.Marshal(compactInputs(run.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	if run.Played.IsZero() {
		run.Played = time.Now()
	}
	_, err = s.db.Exec(
		"insert into runs(sum, outcome, frames, played, inputs) values(?, ?, ?, ?, ?)",
		run.Sum, int(run.Outcome), int64(run.Frames), run.Played.UnixNano(), data,
	)
	if nil != err {
		return fmt.Errorf("unable to save run: %w", err)
	}
	return nil
}

func (s *DefaultStore) query(q string, args ...interface{}) ([]Run, error) {
	rows, err := s.db.Query(q, args...)
	if nil != err {
		return nil, fmt.Errorf("unable to load runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var outcome int
		var frames, played int64
		var data []byte
		if err := rows.Scan(&run.Sum, &outcome, &frames, &played, &data); nil != err {
			return nil, fmt.Errorf("unable to read run: %w", err)
		}
		var ins []InputsCompact
		if err := json.Unmarshal(data, &ins); nil != err {
			s.log.Warnw("skipping run with unreadable inputs", "sum", run.Sum, "error", err)
			continue
		}
		run.Outcome = game.Outcome(outcome)
		run.Frames = uint64(frames)
		run.Played = time.Unix(0, played)
		run.Inputs = uncompactInputs(ins)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Load returns every run of a stage, oldest first.
func (s *DefaultStore) Load(sum string) ([]Run, error) {
	return s.query("select sum, outcome, frames, played, inputs from runs where sum = ? order by id", sum)
}

func (s *DefaultStore) Best(sum string) (Run, bool, error) {
	runs, err := s.query(
		"select sum, outcome, frames, played, inputs from runs where sum = ? and outcome = ? order by frames, id limit 1",
		sum, int(game.OutcomeClear),
	)
	if nil != err || len(runs) == 0 {
		return Run{}, false, err
	}
	return runs[0], true, nil
}
