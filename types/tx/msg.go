package tx

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/gears-network/gears/types"
	"github.com/gears-network/gears/types/errors"
)

// Msg is one state-transition message inside a tx. Concrete messages live in
// their owning module's types package; the engine sees only this contract.
type Msg interface {
	// TypeURL is the dispatch key, e.g. "/cosmos.bank.v1beta1.MsgSend".
	TypeURL() string
	// ValidateBasic performs stateless checks at decode time.
	ValidateBasic() error
	// GetSigners lists the addresses whose signatures the tx must carry.
	GetSigners() []types.AccAddress
	// Marshal encodes the message body for embedding in an Any.
	Marshal() ([]byte, error)
}

// Any is a type-url-tagged opaque payload.
type Any struct {
	TypeURL string
	Value   []byte
}

// MsgDecoder decodes one message body.
type MsgDecoder func(value []byte) (Msg, error)

// Registry maps message type URLs to decoders. It is populated once at app
// construction; registration is not safe for concurrent use.
type Registry struct {
	decoders map[string]MsgDecoder
}

func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]MsgDecoder)}
}

// Register binds a type URL. Duplicate registration is a wiring bug and
// panics at startup.
func (r *Registry) Register(typeURL string, dec MsgDecoder) {
	if _, ok := r.decoders[typeURL]; ok {
		panic(fmt.Sprintf("message %q registered twice", typeURL))
	}
	r.decoders[typeURL] = dec
}

func (r *Registry) Has(typeURL string) bool {
	_, ok := r.decoders[typeURL]
	return ok
}

// Decode resolves the Any against the registry.
func (r *Registry) Decode(any Any) (Msg, error) {
	dec, ok := r.decoders[any.TypeURL]
	if !ok {
		return nil, errorsmod.Wrapf(errors.ErrUnknownMsg, "%s", any.TypeURL)
	}

	msg, err := dec(any.Value)
	if err != nil {
		return nil, errorsmod.Wrapf(errors.ErrTxDecode, "decoding %s: %v", any.TypeURL, err)
	}

	return msg, nil
}
