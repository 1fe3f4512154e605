package keeper

import (
	"encoding/json"

	"github.com/gears-network/gears/x/bank/types"
)

func marshalMetadata(meta types.Metadata) ([]byte, error) {
	return json.Marshal(meta)
}

func unmarshalMetadata(bz []byte) (types.Metadata, error) {
	var meta types.Metadata
	err := json.Unmarshal(bz, &meta)
	return meta, err
}
