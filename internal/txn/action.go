// Package txn assembles, signs, and submits the two transactions the bot
// knows how to send: the limit-increase transfer and the claim call.
package txn

import (
	"fmt"

	"ClaimSentinel/internal/abi"
)

// PermissionLevel is one {actor, permission} authorization.
type PermissionLevel struct {
	Actor      string
	Permission string
}

// Action is a single logical chain action with its serialized data payload.
type Action struct {
	Account       string
	Name          string
	Authorization []PermissionLevel
	Data          []byte
}

// NewTransfer builds a token transfer action: from pays quantity to to,
// with the given memo. Used to buy a higher claim limit from the service
// account.
func NewTransfer(tokenContract, from, to string, quantity abi.Asset, memo string) (Action, error) {
	var e abi.Encoder
	if err := e.WriteName(from); err != nil {
		return Action{}, fmt.Errorf("transfer from: %w", err)
	}
	if err := e.WriteName(to); err != nil {
		return Action{}, fmt.Errorf("transfer to: %w", err)
	}
	e.WriteAsset(quantity)
	e.WriteString(memo)

	return Action{
		Account:       tokenContract,
		Name:          "transfer",
		Authorization: []PermissionLevel{{Actor: from, Permission: "active"}},
		Data:          e.Bytes(),
	}, nil
}

// NewClaim builds the claim action naming account as the recipient.
func NewClaim(gameContract, account string) (Action, error) {
	var e abi.Encoder
	if err := e.WriteName(account); err != nil {
		return Action{}, fmt.Errorf("claim recipient: %w", err)
	}
	return Action{
		Account:       gameContract,
		Name:          "claim",
		Authorization: []PermissionLevel{{Actor: account, Permission: "active"}},
		Data:          e.Bytes(),
	}, nil
}

// pack serializes the action into the chain's binary representation.
func (a Action) pack(e *abi.Encoder) error {
	if err := e.WriteName(a.Account); err != nil {
		return fmt.Errorf("action account: %w", err)
	}
	if err := e.WriteName(a.Name); err != nil {
		return fmt.Errorf("action name: %w", err)
	}
	e.WriteVaruint32(uint32(len(a.Authorization)))
	for _, auth := range a.Authorization {
		if err := e.WriteName(auth.Actor); err != nil {
			return fmt.Errorf("authorization actor: %w", err)
		}
		if err := e.WriteName(auth.Permission); err != nil {
			return fmt.Errorf("authorization permission: %w", err)
		}
	}
	e.WriteBytes(a.Data)
	return nil
}
