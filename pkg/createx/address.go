package createx

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// FactoryAddressHex is the canonical CreateX factory deployment, identical on
// every chain it has been deployed to.
const FactoryAddressHex = "0xba5Ed099633D3B313e4D5F7bdc1305d3c28ba5Ed"

// FactoryAddress is FactoryAddressHex parsed once.
var FactoryAddress = common.HexToAddress(FactoryAddressHex)

// Create3ProxyCode is the minimal proxy the factory deploys via CREATE2 as the
// first stage of a CREATE3 deployment. The proxy then deploys the real
// contract with plain CREATE at nonce 1.
var Create3ProxyCode = hexutil.MustDecode("0x67363d3d37363d34f03d5260086018f3")

// Create3ProxyCodeHash is keccak256(Create3ProxyCode), the init-code hash used
// for the first CREATE3 stage.
var Create3ProxyCodeHash = crypto.Keccak256Hash(Create3ProxyCode)

// Create2Address computes the address a CREATE2 deployment through the factory
// lands on: last20(keccak256(0xff || factory || guardedSalt || initCodeHash)).
func Create2Address(factory common.Address, guarded GuardedSalt, initCodeHash common.Hash) common.Address {
	return crypto.CreateAddress2(factory, [32]byte(guarded), initCodeHash.Bytes())
}

// Create3Address computes the address of a CREATE3 deployment: the factory
// first places the proxy via CREATE2, then the proxy deploys the contract with
// CREATE, so the final address is the proxy's nonce-1 creation address.
func Create3Address(factory common.Address, guarded GuardedSalt) common.Address {
	proxy := Create2Address(factory, guarded, Create3ProxyCodeHash)
	return crypto.CreateAddress(proxy, 1)
}

// InitCodeHash hashes deployment bytecode (including constructor arguments)
// for use as the CREATE2 init-code hash.
func InitCodeHash(initCode []byte) common.Hash {
	return crypto.Keccak256Hash(initCode)
}
