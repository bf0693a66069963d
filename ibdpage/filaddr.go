package ibdpage

import "github.com/Jeanhwea/ibdread/ibdbin"

// NonePageNo is the sentinel page number meaning "no page" in a FilAddr.
const NonePageNo = 0xFFFFFFFF

// FilAddr is a universal intrusive pointer used throughout free-lists: a
// pair of (page_no, byte_offset). It never resolves eagerly; callers read
// the target page through a Source only when they choose to follow it.
type FilAddr struct {
	PageNo  uint32
	BOffset uint16
}

// IsNone reports whether this address is the NONE sentinel.
func (a FilAddr) IsNone() bool {
	return a.PageNo == NonePageNo
}

// ParseFilAddr reads a 6-byte FilAddr (4-byte page number, 2-byte offset) at addr.
func ParseFilAddr(buf []byte, addr int) FilAddr {
	return FilAddr{
		PageNo:  ibdbin.U32(buf, addr),
		BOffset: ibdbin.U16(buf, addr+4),
	}
}

// FilAddrSize is the encoded size of a FilAddr in bytes.
const FilAddrSize = 6

// FlstBaseNode is the 16-byte base of an intrusive doubly-linked file-list:
// {len, first, last}.
type FlstBaseNode struct {
	Len   uint32
	First FilAddr
	Last  FilAddr
}

// FlstBaseNodeSize is the encoded size of a FlstBaseNode in bytes.
const FlstBaseNodeSize = 16

// ParseFlstBaseNode reads a FlstBaseNode at addr.
func ParseFlstBaseNode(buf []byte, addr int) FlstBaseNode {
	return FlstBaseNode{
		Len:   ibdbin.U32(buf, addr),
		First: ParseFilAddr(buf, addr+4),
		Last:  ParseFilAddr(buf, addr+10),
	}
}

// FlstNode is a 12-byte per-element file-list node: {prev, next}.
type FlstNode struct {
	Prev FilAddr
	Next FilAddr
}

// FlstNodeSize is the encoded size of a FlstNode in bytes.
const FlstNodeSize = 12

// ParseFlstNode reads a FlstNode at addr.
func ParseFlstNode(buf []byte, addr int) FlstNode {
	return FlstNode{
		Prev: ParseFilAddr(buf, addr),
		Next: ParseFilAddr(buf, addr+6),
	}
}

// PageResolver fetches a page buffer by number, satisfied by *Source.
type PageResolver interface {
	GetPage(pageNo uint32) ([]byte, error)
}

// WalkFlst follows a file-list starting at base.First, calling visit with
// each node's address and its FlstNode, until the NONE sentinel is reached
// or base.Len nodes have been visited, whichever comes first. The FilAddr's
// byte offset points directly at the embedded FlstNode's {prev, next} pair.
func WalkFlst(src PageResolver, base FlstBaseNode, visit func(addr FilAddr, node FlstNode) error) error {
	cur := base.First
	for i := uint32(0); i < base.Len && !cur.IsNone(); i++ {
		buf, err := src.GetPage(cur.PageNo)
		if err != nil {
			return err
		}
		node := ParseFlstNode(buf, int(cur.BOffset))
		if err := visit(cur, node); err != nil {
			return err
		}
		cur = node.Next
	}
	return nil
}
