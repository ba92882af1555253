package tender

import (
	"strings"

	"pos-checkout/internal/pkg/errs"
)

var ErrUnknownTenderMethod = errs.New("unknown tender method")

type Method string

const (
	MethodCash          Method = "cash"
	MethodCard          Method = "card"
	MethodBankTransfer  Method = "bank_transfer"
	MethodDigitalWallet Method = "digital_wallet"
)

// Rule describes what a method demands from an entry. Adding a method is one
// constant plus one row in rules.
type Rule struct {
	ReferenceRequired bool
	ProviderRequired  bool
	MayOverpay        bool
}

var rules = map[Method]Rule{
	MethodCash:          {MayOverpay: true},
	MethodCard:          {},
	MethodBankTransfer:  {ReferenceRequired: true},
	MethodDigitalWallet: {ReferenceRequired: true, ProviderRequired: true},
}

func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rules[m]; !ok {
		return "", errs.Wrapf(ErrUnknownTenderMethod, "method %q", s)
	}
	return m, nil
}

func (m Method) Rule() Rule {
	return rules[m]
}

func (m Method) IsValid() bool {
	_, ok := rules[m]
	return ok
}

func (m Method) String() string {
	return string(m)
}

// Methods lists every supported method in a stable order.
func Methods() []Method {
	return []Method{MethodCash, MethodCard, MethodBankTransfer, MethodDigitalWallet}
}
