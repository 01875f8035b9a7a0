package suppliers

import "github.com/celebrelabs/celebre-backend/pkg/enums"

// Client-facing reason strings. These are rendered verbatim in the mobile app,
// so wording changes here are product changes, not refactors.
const (
	MsgSupplierNotFound     = "Fornecedor não encontrado"
	MsgPayoutsNotReady      = "Fornecedor ainda não configurou o recebimento de pagamentos"
	MsgKYCNotVerified       = "Fornecedor ainda não concluiu a verificação de identidade"
	MsgIdentityPending      = "Verificação de identidade do fornecedor em análise"
	MsgOnboardingIncomplete = "Fornecedor ainda não concluiu o processo de ativação"
	MsgNotListed            = "Fornecedor não está visível no momento"
	MsgBookingsBlocked      = "Fornecedor não está aceitando novas reservas"
	MsgRateLimited          = "Fornecedor atingiu o limite de solicitações. Tente novamente mais tarde"
	MsgDateUnavailable      = "Data não disponível para este fornecedor"
	MsgSupplierUnavailable  = "Fornecedor indisponível no momento"
)

var lifecycleMessages = map[enums.LifecycleState]string{
	enums.LifecycleStateDraft:            "Fornecedor ainda não concluiu o cadastro",
	enums.LifecycleStatePendingReview:    "Fornecedor aguardando aprovação",
	enums.LifecycleStatePausedBySupplier: "Fornecedor pausou os agendamentos temporariamente",
	enums.LifecycleStateSuspended:        "Fornecedor suspenso",
	enums.LifecycleStateDisabled:         "Fornecedor desativado",
	enums.LifecycleStateArchived:         "Fornecedor arquivado",
}

// LifecycleMessage returns the state-specific ineligibility reason; unknown
// states get the generic unavailable message.
func LifecycleMessage(state enums.LifecycleState) string {
	if msg, ok := lifecycleMessages[state]; ok {
		return msg
	}
	return MsgSupplierUnavailable
}
