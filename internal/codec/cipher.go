package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"hash"
	"io"

	"github.com/yeka/zip"
	"golang.org/x/crypto/pbkdf2"
)

// WinZip AE-2 framing: salt, password verifier, ciphertext, authentication code.
const (
	aesExtraID      = 0x9901
	aesVersionAE2   = 2
	aesVendorID     = 0x4541 // "AE"
	aesVerifierLen  = 2
	aesAuthCodeLen  = 10
	aesKDFRounds    = 1000
	zipCryptoHeader = 12
)

func aesStrengthCode(keyStrength int) byte {
	switch keyStrength {
	case 128:
		return 1
	case 192:
		return 2
	default:
		return 3
	}
}

// aesExtra is the 0x9901 extra field. method is the real compression method.
func aesExtra(keyStrength int, method uint16) []byte {
	b := make([]byte, 11)
	binary.LittleEndian.PutUint16(b[0:], aesExtraID)
	binary.LittleEndian.PutUint16(b[2:], 7)
	binary.LittleEndian.PutUint16(b[4:], aesVersionAE2)
	binary.LittleEndian.PutUint16(b[6:], aesVendorID)
	b[8] = aesStrengthCode(keyStrength)
	binary.LittleEndian.PutUint16(b[9:], method)
	return b
}

type aesWriter struct {
	w      io.Writer
	stream cipher.Stream
	mac    hash.Hash
	buf    []byte
}

// newAESWriter writes the salt and password verifier to w and returns a writer
// that encrypts and authenticates everything written after them.
func newAESWriter(w io.Writer, password string, keyStrength int) (*aesWriter, error) {
	keyLen := keyStrength / 8
	salt := make([]byte, keyLen/2)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(password), salt, aesKDFRounds, 2*keyLen+aesVerifierLen, sha1.New)
	block, err := aes.NewCipher(key[:keyLen])
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(salt); err != nil {
		return nil, err
	}
	if _, err := w.Write(key[2*keyLen:]); err != nil {
		return nil, err
	}

	return &aesWriter{
		w:      w,
		stream: newWinZipCTR(block),
		mac:    hmac.New(sha1.New, key[keyLen:2*keyLen]),
	}, nil
}

func (a *aesWriter) Write(p []byte) (int, error) {
	if cap(a.buf) < len(p) {
		a.buf = make([]byte, len(p))
	}
	out := a.buf[:len(p)]
	a.stream.XORKeyStream(out, p)
	a.mac.Write(out)
	return a.w.Write(out)
}

// Close appends the authentication code.
func (a *aesWriter) Close() error {
	_, err := a.w.Write(a.mac.Sum(nil)[:aesAuthCodeLen])
	return err
}

// winZipCTR is CTR mode with the little-endian counter WinZip uses, starting at 1.
type winZipCTR struct {
	block   cipher.Block
	counter [aes.BlockSize]byte
	stream  [aes.BlockSize]byte
	used    int
}

func newWinZipCTR(block cipher.Block) *winZipCTR {
	return &winZipCTR{block: block, used: aes.BlockSize}
}

func (c *winZipCTR) XORKeyStream(dst, src []byte) {
	for i := range src {
		if c.used == aes.BlockSize {
			for j := range c.counter {
				c.counter[j]++
				if c.counter[j] != 0 {
					break
				}
			}
			c.block.Encrypt(c.stream[:], c.counter[:])
			c.used = 0
		}
		dst[i] = src[i] ^ c.stream[c.used]
		c.used++
	}
}

type zipCryptoWriter struct {
	w    io.Writer
	keys *zip.ZipCrypto
}

// newZipCryptoWriter writes the encryption header. With a data descriptor the
// check bytes are the DOS modification time instead of the CRC.
func newZipCryptoWriter(w io.Writer, password string, modTime uint16) (*zipCryptoWriter, error) {
	header := make([]byte, zipCryptoHeader)
	if _, err := rand.Read(header[:zipCryptoHeader-2]); err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint16(header[zipCryptoHeader-2:], modTime)

	keys := zip.NewZipCrypto([]byte(password))
	if _, err := w.Write(keys.Encrypt(header)); err != nil {
		return nil, err
	}
	return &zipCryptoWriter{w: w, keys: keys}, nil
}

func (z *zipCryptoWriter) Write(p []byte) (int, error) {
	return z.w.Write(z.keys.Encrypt(p))
}

func (z *zipCryptoWriter) Close() error { return nil }
