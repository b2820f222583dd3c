package utils

import (
	"fmt"
	"sync"
	"time"
)

// 对局 id 布局：41 位毫秒时间 | 10 位节点 | 12 位序号。
// 纪元取 2024-01-01 UTC，足够用到 2093 年。
const (
	idEpoch = int64(1704067200000)

	idNodeBits = 10
	idSeqBits  = 12

	idNodeMask = int64(1)<<idNodeBits - 1
	idSeqMask  = int64(1)<<idSeqBits - 1
)

// Snowflake 单进程内单调递增；多进程靠不同节点号区分。
type Snowflake struct {
	mu     sync.Mutex
	node   int64
	lastMS int64
	seq    int64
	now    func() time.Time
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > idNodeMask {
		return nil, fmt.Errorf("snowflake node id %d out of [0,%d]", nodeID, idNodeMask)
	}
	return &Snowflake{node: nodeID, now: time.Now}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := max(s.now().UnixMilli(), s.lastMS) // 时钟回拨时沿用上一毫秒
	if ms == s.lastMS {
		s.seq = (s.seq + 1) & idSeqMask
		if s.seq == 0 {
			// 本毫秒序号用尽，等下一毫秒
			for ms <= s.lastMS {
				time.Sleep(100 * time.Microsecond)
				ms = s.now().UnixMilli()
			}
		}
	} else {
		s.seq = 0
	}
	s.lastMS = ms
	return (ms-idEpoch)<<(idNodeBits+idSeqBits) | s.node<<idSeqBits | s.seq
}

// NodeID 服务器编号取低 10 位作为节点号。
func NodeID(serverID int) int64 {
	return int64(serverID) & idNodeMask
}

// Decompose 拆出生成时间、节点号和序号，排查问题时用。
func Decompose(id int64) (at time.Time, node, seq int64) {
	at = time.UnixMilli(id>>(idNodeBits+idSeqBits) + idEpoch)
	node = id >> idSeqBits & idNodeMask
	seq = id & idSeqMask
	return at, node, seq
}
