package section

// s3 header framing.
const (
	HeaderMagic   = "s3"     // first line of every s3 file
	EndHeader     = "endhdr" // last header line, preceded by alignment spaces
	Alignment     = 4        // header length (including "endhdr\n") is a multiple of this
	ByteOrderSize = 4        // size of the byte-order marker following the header
)

// Header keys written by the mixtree encoders.
const (
	KeyVersion  = "version"
	KeyNumSen   = "n_sen"
	KeyNumFeat  = "n_feat"
	KeyNumMixw  = "n_mixw"
	KeyDensity  = "n_density"
	KeyLogBase  = "logbase"
	KeyChecksum = "chksum0"

	// KeyCompression is only present on blobs whose body is compressed.
	KeyCompression = "compression"
)

// Record layout of the tree formats.
const (
	RecordLinkSize   = 4 // int16 left + int16 right
	RecordBitposSize = 4 // int16 start word + int16 word count
	BitmapWordSize   = 4 // int32 per bitmap word
	NoLink           = -1
)
