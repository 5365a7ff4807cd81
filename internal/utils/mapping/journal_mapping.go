package mapping

import (
	"github.com/SscSPs/bizledger_app/internal/core/domain"
	"github.com/SscSPs/bizledger_app/internal/models"
)

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:                d.LineID,
		CompanyID:             d.CompanyID,
		AccountID:             d.AccountID,
		TransactionID:         d.TransactionID,
		ReversesTransactionID: d.ReversesTransactionID,
		IsDebit:               d.Side == domain.Debit,
		Amount:                d.Amount,
		EntryDate:             d.EntryDate,
		Description:           d.Description,
		MovementType:          string(d.MovementType),
		IsDeleted:             d.IsDeleted,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:                m.LineID,
		CompanyID:             m.CompanyID,
		AccountID:             m.AccountID,
		TransactionID:         m.TransactionID,
		ReversesTransactionID: m.ReversesTransactionID,
		Side:                  domain.Side(m.IsDebit),
		Amount:                m.Amount,
		EntryDate:             m.EntryDate,
		Description:           m.Description,
		MovementType:          domain.MovementType(m.MovementType),
		IsDeleted:             m.IsDeleted,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
