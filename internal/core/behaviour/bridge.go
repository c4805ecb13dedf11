package behaviour

import (
	"slices"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/dep2p/bootnode/internal/core/discovery/dht"
	"github.com/dep2p/bootnode/internal/core/protocol/identify"
)

// AddressAdder 路由表写入接口
type AddressAdder interface {
	AddAddress(p peer.ID, addr ma.Multiaddr) dht.RoutingUpdate
}

var _ AddressAdder = (*dht.Kademlia)(nil)

// AddIdentifiedPeer 把 identify 结果加入路由表
//
// 只有 ev.Info.Protocols 中有与 kadProtocol 完全相同的条目时才加入，
// 返回加入的地址数。
func AddIdentifiedPeer(k AddressAdder, kadProtocol protocol.ID, ev identify.Received) int {
	if !slices.Contains(ev.Info.Protocols, kadProtocol) {
		return 0
	}
	for _, addr := range ev.Info.ListenAddrs {
		k.AddAddress(ev.PeerID, addr)
	}
	return len(ev.Info.ListenAddrs)
}
