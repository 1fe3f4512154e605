package tx

import (
	"encoding/base64"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"

	"github.com/gears-network/gears/types/errors"
)

type pubKeyJSON struct {
	Type string `json:"@type"`
	Key  string `json:"key"`
}

func marshalPubKeyJSON(pk *PubKey) ([]byte, error) {
	return json.Marshal(pubKeyJSON{
		Type: pk.typeURL,
		Key:  base64.StdEncoding.EncodeToString(pk.key.Bytes()),
	})
}

func unmarshalPubKeyJSON(bz []byte) (*PubKey, error) {
	var wrapper pubKeyJSON
	if err := json.Unmarshal(bz, &wrapper); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(wrapper.Key)
	if err != nil {
		return nil, errorsmod.Wrap(errors.ErrTxDecode, err.Error())
	}

	return DecodePubKey(Any{TypeURL: wrapper.Type, Value: AppendTagBytes(nil, 1, raw)})
}
