package sgf

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"termtoe/board"
	"termtoe/history"
)

// Recorder writes every round of a session to its own file in dir.
// A record is opened by the first move of a round and closed when the round
// ends or the board is reset. Write errors are logged, never returned, so a
// full disk does not stop the game.
type Recorder struct {
	dir string
	log *zap.Logger
	now func() time.Time

	mu  sync.Mutex
	rec *GameRecord
}

func NewRecorder(dir string, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{dir: dir, log: log, now: time.Now}
}

// Move records last. A last.Move of board.Invalid marks a reset.
func (r *Recorder) Move(last history.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if last.Move == board.Invalid {
		r.closeLocked()
		return
	}
	if r.rec == nil {
		rec, err := NewGameRecord(r.dir, r.now())
		if err != nil {
			r.log.Warn("cannot start game record", zap.Error(err))
			return
		}
		r.rec = rec
		r.log.Debug("game record started", zap.String("path", rec.FilePath))
	}
	if err := r.rec.AddMove(last); err != nil {
		r.log.Warn("cannot record move", zap.String("path", r.rec.FilePath), zap.Error(err))
	}
}

// End stores the result of the finished round b and closes its record.
func (r *Recorder) End(b board.Board) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rec == nil {
		return
	}
	if err := r.rec.SetResult(b); err != nil {
		r.log.Warn("cannot record result", zap.String("path", r.rec.FilePath), zap.Error(err))
	}
	r.closeLocked()
}

// Close closes the open record, leaving its result unknown.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

func (r *Recorder) closeLocked() {
	if r.rec == nil {
		return
	}
	if err := r.rec.Close(); err != nil {
		r.log.Warn("cannot close game record", zap.String("path", r.rec.FilePath), zap.Error(err))
	}
	r.log.Debug("game record closed", zap.String("path", r.rec.FilePath), zap.String("result", r.rec.Result))
	r.rec = nil
}
