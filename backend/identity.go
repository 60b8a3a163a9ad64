package backend

import (
	"github.com/gitkarasune/Sketch-MQ/proto"
)

// memIdentity is the verified identity carried by the websocket
// handshake. It is immutable for the life of the connection.
type memIdentity struct {
	id     proto.UserID
	name   string
	avatar string
}

func newMemIdentity(id proto.UserID, name, avatar string) *memIdentity {
	return &memIdentity{id: id, name: name, avatar: avatar}
}

func (ident *memIdentity) ID() proto.UserID { return ident.id }
func (ident *memIdentity) Name() string     { return ident.name }
func (ident *memIdentity) Avatar() string   { return ident.avatar }

func (ident *memIdentity) View() *proto.IdentityView {
	return &proto.IdentityView{
		ID:     ident.id,
		Name:   ident.name,
		Avatar: ident.avatar,
	}
}
