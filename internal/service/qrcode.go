package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPayload is the proof encoded into the scannable image: the pass id
// and the truncated HMAC digest bound to it.
type QRPayload struct {
	ID   string `json:"id"`
	Hash string `json:"hash"`
}

// QRCodeService produces and checks HMAC-bound proofs for passes. It is
// stateless; single-use redemption is enforced by PassService, not here.
type QRCodeService struct {
	secret []byte
}

func NewQRCodeService(secret string) *QRCodeService {
	return &QRCodeService{secret: []byte(secret)}
}

// GenerateHash returns hex(HMAC-SHA256(secret, id)) truncated to 8
// characters. Deterministic for a given secret and id.
func (s *QRCodeService) GenerateHash(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))[:8]
}

// GenerateProof renders the {id, hash} payload as a PNG data URL and
// returns it together with the hash for storage alongside the pass.
func (s *QRCodeService) GenerateProof(passID string) (string, string, error) {
	hash := s.GenerateHash(passID)

	payload, err := json.Marshal(QRPayload{ID: passID, Hash: hash})
	if err != nil {
		return "", "", fmt.Errorf("failed to encode qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.High, 256)
	if err != nil {
		return "", "", fmt.Errorf("failed to render qr code: %w", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return dataURL, hash, nil
}

// VerifyPayload parses a scanned payload and checks it against the
// expected pass id. Malformed payloads fail closed.
func (s *QRCodeService) VerifyPayload(payload []byte, expectedID string) bool {
	var data QRPayload
	if err := json.Unmarshal(payload, &data); err != nil {
		return false
	}
	if data.ID != expectedID {
		return false
	}
	return s.CompareHash(expectedID, data.Hash)
}

// CompareHash recomputes the digest for id and compares it to presented
// in constant time.
func (s *QRCodeService) CompareHash(id, presented string) bool {
	expected := s.GenerateHash(id)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}
