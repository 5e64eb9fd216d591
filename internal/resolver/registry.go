package resolver

// Kind classifies an operation by its execution shape.
type Kind string

const (
	// KindQuery is a read-only request/response operation.
	KindQuery Kind = "query"
	// KindMutation is a state-changing request/response operation.
	KindMutation Kind = "mutation"
	// KindSubscription is a long-lived event stream.
	KindSubscription Kind = "subscription"
)

// AuthTier is the authorization requirement of an operation.
type AuthTier string

const (
	// AuthNone means the operation is public.
	AuthNone AuthTier = "none"
	// AuthRequired means the operation needs a resolved user.
	AuthRequired AuthTier = "required"
)

// Operation describes one entry of the closed operation set. New operations
// are added here and nowhere else; dispatch goes through this table so an
// unknown name can never be routed.
type Operation struct {
	Name string
	Kind Kind
	Auth AuthTier
}

// Operation names, stable across transports.
const (
	OpBookCount        = "bookCount"
	OpAuthorCount      = "authorCount"
	OpAllBooks         = "allBooks"
	OpAllGenres        = "allGenres"
	OpAllAuthors       = "allAuthors"
	OpFindAuthor       = "findAuthor"
	OpMe               = "me"
	OpRecommendedBooks = "recommendedBooks"
	OpAddAuthor        = "addAuthor"
	OpAddBook          = "addBook"
	OpEditAuthor       = "editAuthor"
	OpCreateUser       = "createUser"
	OpLogin            = "login"
	OpBookAdded        = "bookAdded"
	OpAuthorAdded      = "authorAdded"
)

// operations is the closed set, in catalog order.
var operations = []Operation{
	{Name: OpBookCount, Kind: KindQuery, Auth: AuthNone},
	{Name: OpAuthorCount, Kind: KindQuery, Auth: AuthNone},
	{Name: OpAllBooks, Kind: KindQuery, Auth: AuthNone},
	{Name: OpAllGenres, Kind: KindQuery, Auth: AuthNone},
	{Name: OpAllAuthors, Kind: KindQuery, Auth: AuthNone},
	{Name: OpFindAuthor, Kind: KindQuery, Auth: AuthNone},
	{Name: OpMe, Kind: KindQuery, Auth: AuthRequired},
	{Name: OpRecommendedBooks, Kind: KindQuery, Auth: AuthRequired},
	{Name: OpAddAuthor, Kind: KindMutation, Auth: AuthRequired},
	{Name: OpAddBook, Kind: KindMutation, Auth: AuthRequired},
	{Name: OpEditAuthor, Kind: KindMutation, Auth: AuthRequired},
	{Name: OpCreateUser, Kind: KindMutation, Auth: AuthNone},
	{Name: OpLogin, Kind: KindMutation, Auth: AuthNone},
	{Name: OpBookAdded, Kind: KindSubscription, Auth: AuthNone},
	{Name: OpAuthorAdded, Kind: KindSubscription, Auth: AuthNone},
}

var operationsByName = func() map[string]Operation {
	m := make(map[string]Operation, len(operations))
	for _, op := range operations {
		m[op.Name] = op
	}
	return m
}()

// Operations returns the full operation set in declaration order.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

// Lookup returns the operation descriptor for a name.
func Lookup(name string) (Operation, bool) {
	op, ok := operationsByName[name]
	return op, ok
}
