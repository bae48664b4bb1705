package decl

type (
	NodeID    uint32
	PayloadID uint32
)

const (
	NoNodeID    NodeID    = 0
	NoPayloadID PayloadID = 0
)

func (id NodeID) IsValid() bool { return id != NoNodeID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
