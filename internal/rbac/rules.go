package rbac

// Permission names an action on the question bank or on papers. A grant
// ending in ":*" covers every action of that resource; "*" covers all.
type Permission string

const (
	PermQuestionCreate Permission = "question:create"
	PermQuestionList   Permission = "question:list"
	PermPaperGenerate  Permission = "paper:generate"
	PermPaperExport    Permission = "paper:export"
	PermPaperAll       Permission = "paper:*"
	PermAll            Permission = "*"
)

// Roles carried in the JWT role claim.
const (
	RoleSubjectExpert = "subject_expert"
	RoleExaminer      = "examiner"
	RoleAdmin         = "admin"
)

// DefaultPolicy lets subject experts maintain the bank and set papers;
// examiners only read the bank.
var DefaultPolicy = Policy{
	RoleSubjectExpert: {PermQuestionCreate, PermQuestionList, PermPaperAll},
	RoleExaminer:      {PermQuestionList, PermPaperGenerate, PermPaperExport},
	RoleAdmin:         {PermAll},
}
