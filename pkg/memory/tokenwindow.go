package memory

import (
	"github.com/pkg/errors"
	"github.com/tiktoken-go/tokenizer"
)

// CodecForModel resolves the tokenizer codec for a model name, e.g. "gpt-4".
func CodecForModel(model string) (tokenizer.Codec, error) {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		return nil, errors.Wrapf(err, "no tokenizer for model %s", model)
	}
	return codec, nil
}

// CodecForEncoding resolves a codec by encoding name, e.g. "cl100k_base".
func CodecForEncoding(encoding string) (tokenizer.Codec, error) {
	codec, err := tokenizer.Get(tokenizer.Encoding(encoding))
	if err != nil {
		return nil, errors.Wrapf(err, "no tokenizer for encoding %s", encoding)
	}
	return codec, nil
}
