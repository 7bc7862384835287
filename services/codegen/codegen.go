// Package codegen turns block workspaces into Arduino sketches.
//
// A Service runs one pass per Generate call: the workspace is checked
// against the document schema, every block is bound to its definition and
// generated, and the collected fragments are assembled into the sketch
// text. Pin conflicts are reported in the Result and, when a bus is
// attached, published as retained diagnostics:
//
//	codegen/<sketch>/sketch     generated code
//	codegen/<sketch>/conflicts  []PinConflict, cleared when none
package codegen

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"roboblocks-go/bus"
	"roboblocks-go/errcode"
	"roboblocks-go/services/codegen/internal/boards"
	"roboblocks-go/services/codegen/internal/core"
	"roboblocks-go/services/codegen/internal/schema"
	"roboblocks-go/types"
)

const (
	serviceName    = "codegen"
	topicSketch    = "sketch"
	topicConflicts = "conflicts"

	DefaultSketchName = "ArdublocklySketch"
)

type (
	PinType       = core.PinType
	PinAssignment = core.PinAssignment
	PinConflict   = core.PinConflict
)

// Result is the outcome of one pass.
type Result struct {
	Code      string
	Board     string // resolved profile key
	Pins      []PinAssignment
	Conflicts []PinConflict
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBus publishes pass diagnostics on b.
func WithBus(b *bus.Bus) Option {
	return func(s *Service) {
		if b != nil {
			s.conn = b.NewConnection(serviceName)
		}
	}
}

// WithStrictPins makes pin conflicts fail the pass.
func WithStrictPins(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// WithBoard sets the board used when a workspace names none.
func WithBoard(name string) Option {
	return func(s *Service) { s.board = name }
}

// WithSketchName names the sketch in diagnostic topics.
func WithSketchName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.sketch = name
		}
	}
}

// Service serialises passes; it is safe to share between goroutines.
type Service struct {
	mu     sync.Mutex
	log    *zap.Logger
	conn   *bus.Connection
	strict bool
	board  string
	sketch string

	validator *schema.Validator
}

func New(opts ...Option) (*Service, error) {
	s := &Service{
		log:    zap.NewNop(),
		board:  boards.Default,
		sketch: DefaultSketchName,
	}
	for _, o := range opts {
		o(s)
	}
	v, err := schema.New()
	if err != nil {
		return nil, err
	}
	s.validator = v
	if _, ok := boards.Resolve(s.board); !ok {
		return nil, errcode.Wrap(errcode.UnknownBoard, serviceName, s.board, nil)
	}
	return s, nil
}

// Generate runs one pass over ws. Blocks without an ID are given one. With
// strict pins a conflicting pass returns both the Result and a pin_conflict
// error.
func (s *Service) Generate(ctx context.Context, ws *types.Workspace) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validator.Validate(ws); err != nil {
		return nil, err
	}
	ws.Normalize()

	name := ws.Board
	if name == "" {
		name = s.board
	}
	board, ok := boards.Resolve(name)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownBoard, serviceName, name, nil)
	}

	pass := core.NewPass(board)
	code, err := pass.Sketch(ctx, ws.Setup, ws.Loop)
	if err != nil {
		s.log.Warn("generation failed", zap.String("board", board.Key), zap.Error(err))
		return nil, err
	}

	res := &Result{
		Code:      code,
		Board:     board.Key,
		Pins:      pass.Pins(),
		Conflicts: pass.Conflicts(),
	}
	for _, c := range res.Conflicts {
		s.log.Warn("pin conflict",
			zap.String("pin", c.Pin),
			zap.String("block", c.Owner),
			zap.String("existing_block", c.ExistingOwner),
			zap.String("message", c.Message()))
	}
	s.log.Debug("pass finished",
		zap.String("board", board.Key),
		zap.Int("blocks", len(ws.Setup)+len(ws.Loop)),
		zap.Int("pins", len(res.Pins)),
		zap.Int("bytes", len(code)))
	s.publish(res)

	if s.strict && len(res.Conflicts) > 0 {
		return res, errcode.Wrap(errcode.PinConflict, serviceName,
			strconv.Itoa(len(res.Conflicts))+" conflicting pin reservations: "+res.Conflicts[0].Message(), nil)
	}
	return res, nil
}

func (s *Service) publish(res *Result) {
	if s.conn == nil {
		return
	}
	s.conn.Publish(s.conn.NewMessage(bus.Topic{serviceName, s.sketch, topicSketch}, res.Code, true))

	// A nil payload clears the retained conflicts of the previous pass.
	var conflicts any
	if len(res.Conflicts) > 0 {
		conflicts = res.Conflicts
	}
	s.conn.Publish(s.conn.NewMessage(bus.Topic{serviceName, s.sketch, topicConflicts}, conflicts, true))
}

// Close releases the bus connection.
func (s *Service) Close() {
	if s.conn != nil {
		s.conn.Disconnect()
	}
}
