// Package diagnostics reports codegen passes published on the bus as
// human-readable lines.
package diagnostics

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"roboblocks-go/bus"
	"roboblocks-go/services/codegen"
)

var (
	topicSketches  = bus.T("codegen/+/sketch")
	topicConflicts = bus.T("codegen/+/conflicts")
)

type Service struct {
	out  io.Writer
	log  *zap.Logger
	done chan struct{}

	// conflicting counts the reported conflicts per sketch.
	conflicting map[string]int
}

func New(out io.Writer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		out:         out,
		log:         log,
		done:        make(chan struct{}),
		conflicting: make(map[string]int),
	}
}

// Start subscribes before returning, so retained results of earlier passes
// are reported too. The service owns conn and disconnects it on exit.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	sketches := conn.Subscribe(topicSketches)
	conflicts := conn.Subscribe(topicConflicts)
	go s.serviceLoop(ctx, conn, sketches, conflicts)
}

// Wait blocks until the service loop has stopped.
func (s *Service) Wait() { <-s.done }

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, sketches, conflicts *bus.Subscription) {
	defer close(s.done)
	defer conn.Disconnect()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("diagnostics stopping")
			return
		case msg, ok := <-sketches.Channel():
			if !ok {
				return
			}
			code, _ := msg.Payload.(string)
			fmt.Fprintf(s.out, "%s: sketch updated (%d bytes)\n", sketchOf(msg), len(code))
		case msg, ok := <-conflicts.Channel():
			if !ok {
				return
			}
			s.reportConflicts(sketchOf(msg), msg.Payload)
		}
	}
}

func (s *Service) reportConflicts(sketch string, payload any) {
	cs, _ := payload.([]codegen.PinConflict)
	if len(cs) == 0 {
		if s.conflicting[sketch] > 0 {
			fmt.Fprintf(s.out, "%s: pin conflicts resolved\n", sketch)
		}
		delete(s.conflicting, sketch)
		return
	}
	s.conflicting[sketch] = len(cs)
	for _, c := range cs {
		fmt.Fprintf(s.out, "%s: %s\n", sketch, c.Message())
	}
}

// sketchOf extracts <sketch> from codegen/<sketch>/<kind>.
func sketchOf(msg *bus.Message) string {
	if len(msg.Topic) < 2 {
		return ""
	}
	return msg.Topic[1]
}
