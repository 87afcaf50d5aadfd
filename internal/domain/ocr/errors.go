package ocr

import "errors"

// ErrExtraction indicates the OCR engine failed on the given image
// (corrupt data, unsupported encoding, engine failure). Fatal for the
// request; there is no recovery at this stage.
var ErrExtraction = errors.New("text extraction failed")
