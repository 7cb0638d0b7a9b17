package handler

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	azalnet "github.com/dragonfly-bot/azalea/net"
	"github.com/dragonfly-bot/azalea/net/packet"
)

func init() {
	Register(&packet.EncryptionRequest{}, handleEncryptionRequest)
	Register(&packet.LoginCompression{}, handleLoginCompression)
	Register(&packet.LoginFinished{}, handleLoginFinished)
	Register(&packet.LoginDisconnect{}, handleLoginDisconnect)
}

// handleEncryptionRequest answers the server's RSA public key challenge by
// generating a random 16-byte shared secret, RSA-PKCS1v15-encrypting both it
// and the verify token with the server-supplied key, then switching this
// connection's I/O over to AES-128-CFB8 using the secret, per spec.md
// section 4.7 "Login.Hello(server): ... reply with Key ... then enable
// encryption for subsequent I/O." Session-server authentication against
// Mojang is out of scope (see net/packet/login.go's EncryptionRequest doc),
// so the exchange proceeds without verifying the server's auth signature.
func handleEncryptionRequest(ctx Context, p any) error {
	pk := p.(*packet.EncryptionRequest)
	pub, err := x509.ParsePKIXPublicKey(pk.PublicKey)
	if err != nil {
		return fmt.Errorf("handler: parse server public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("handler: server public key is not RSA")
	}
	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("handler: generate shared secret: %w", err)
	}
	encSecret, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, secret)
	if err != nil {
		return fmt.Errorf("handler: encrypt shared secret: %w", err)
	}
	encToken, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, pk.VerifyToken)
	if err != nil {
		return fmt.Errorf("handler: encrypt verify token: %w", err)
	}
	if err := ctx.Send(&packet.EncryptionResponse{SharedSecret: encSecret, VerifyToken: encToken}); err != nil {
		return err
	}
	return ctx.Conn().EnableEncryption(secret)
}

func handleLoginCompression(ctx Context, p any) error {
	pk := p.(*packet.LoginCompression)
	ctx.Conn().EnableCompression(pk.Threshold)
	return nil
}

// handleLoginFinished stores the assigned profile, acknowledges, and
// transitions to Configuration, per spec.md section 4.7
// "Login.LoginFinished(profile): store profile; reply with acknowledgement;
// transition to Configuration." This is a state-changing packet: its error
// return signals the caller to stop decoding the current batch.
func handleLoginFinished(ctx Context, p any) error {
	pk := p.(*packet.LoginFinished)
	ctx.Player().UUID = [16]byte(pk.UUID)
	if err := ctx.Send(&packet.LoginAcknowledged{}); err != nil {
		return err
	}
	if err := ctx.Conn().Transition(azalnet.StateConfiguration); err != nil {
		return fmt.Errorf("handler: login finished: %w", err)
	}
	return &StateChangeError{To: azalnet.StateConfiguration}
}

func handleLoginDisconnect(ctx Context, p any) error {
	pk := p.(*packet.LoginDisconnect)
	ctx.Log().Warn("disconnected during login", "reason", pk.Reason)
	return nil
}
