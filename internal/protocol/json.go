package protocol

import jsoniter "github.com/json-iterator/go"

// json is the codec for all frame payloads. Configured for standard
// library compatibility so payloads interoperate with encoding/json users.
var json = jsoniter.ConfigCompatibleWithStandardLibrary
