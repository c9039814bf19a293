package repository

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out time-ordered ids, so ordering transactions by id is
// ordering them by creation.
type IDGenerator interface {
	NextID() int64
}

type snowflakeGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(nodeID int64) (IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node %d: %w", nodeID, err)
	}

	return &snowflakeGenerator{node: node}, nil
}

func (s *snowflakeGenerator) NextID() int64 {
	return s.node.Generate().Int64()
}
