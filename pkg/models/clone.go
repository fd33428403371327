package models

import "maps"

// Clone returns a copy of the workflow whose blocks and connections can be
// modified independently. Nested configuration values are shared.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}

	clone := *w
	clone.TriggerConfig = maps.Clone(w.TriggerConfig)

	if w.Blocks != nil {
		clone.Blocks = make([]*WorkflowBlock, len(w.Blocks))
		for i, block := range w.Blocks {
			if block == nil {
				continue
			}

			blockCopy := *block
			blockCopy.Config = maps.Clone(block.Config)

			if block.Position != nil {
				position := *block.Position
				blockCopy.Position = &position
			}

			clone.Blocks[i] = &blockCopy
		}
	}

	if w.Connections != nil {
		clone.Connections = make([]*Connection, len(w.Connections))
		for i, conn := range w.Connections {
			if conn == nil {
				continue
			}

			connCopy := *conn
			clone.Connections[i] = &connCopy
		}
	}

	return &clone
}

// Clone returns a copy of the record with its own log slice.
func (r *ExecutionRecord) Clone() *ExecutionRecord {
	if r == nil {
		return nil
	}

	clone := *r

	if r.CompletedAt != nil {
		completedAt := *r.CompletedAt
		clone.CompletedAt = &completedAt
	}

	clone.Logs = append(make([]ExecutionLog, 0, len(r.Logs)), r.Logs...)

	return &clone
}

// Clone returns a copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}

	clone := *s

	return &clone
}
