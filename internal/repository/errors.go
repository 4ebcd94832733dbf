package repository

// Conflict messages shared by the storage implementations.
const (
	MsgTutorCPFTaken        = "a tutor with this cpf already exists"
	MsgTutorEmailTaken      = "a tutor with this email already exists"
	MsgUserEmailTaken       = "This e-mail is already in use."
	MsgVetBusy              = "vet already has an appointment at this time"
	MsgConcurrentChange     = "schedule changed concurrently, please retry"
	MsgRecordExists         = "appointment already has a medical record"
	MsgStillReferenced      = "resource is still referenced by other records"
	MsgTutorHasAnimals      = "tutor still owns animals"
	MsgAnimalHasAppointment = "animal still has appointments"
)
