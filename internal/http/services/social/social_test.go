package social

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/taskflow/internal/cache"
	"github.com/dropDatabas3/taskflow/internal/domain/repository"
	"github.com/dropDatabas3/taskflow/internal/domain/types"
	"github.com/dropDatabas3/taskflow/internal/http/providers"
	"github.com/dropDatabas3/taskflow/internal/http/services/auth"
	"github.com/dropDatabas3/taskflow/internal/store/adapters/memory"
)

type fakeProvider struct {
	name         types.Provider
	requireState bool
	profile      providers.UserProfile
	exchangeErr  error
	profileErr   error

	exchanges atomic.Int32
	gate      chan struct{} // si no es nil, Exchange espera hasta que se cierre
}

func (f *fakeProvider) Name() types.Provider { return f.name }
func (f *fakeProvider) RequiresState() bool  { return f.requireState }

func (f *fakeProvider) Exchange(ctx context.Context, _, _ string) (*providers.TokenSet, error) {
	f.exchanges.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &providers.TokenSet{AccessToken: "at"}, nil
}

func (f *fakeProvider) UserInfo(context.Context, string) (*providers.UserProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p := f.profile
	return &p, nil
}

func google(sub, email string) *fakeProvider {
	return &fakeProvider{
		name:    types.ProviderGoogle,
		profile: providers.UserProfile{ProviderID: sub, Email: email, Name: "Bob", Picture: "https://p/b.png"},
	}
}

func newService(conn *memory.Conn, c cache.Client, ps ...providers.Provider) SocialService {
	return NewSocialService(Deps{
		Members:    conn.Members(),
		Identities: conn.Identities(),
		Registry:   providers.NewRegistry(ps...),
		Cache:      c,
	})
}

func TestFirstLoginCreatesMemberAndIdentity(t *testing.T) {
	conn := memory.New()
	svc := newService(conn, nil, google("g-1", "bob@gmail.com"))
	ctx := context.Background()

	m, err := svc.Authenticate(ctx, types.ProviderGoogle, "code-1", "")
	require.NoError(t, err)
	assert.Equal(t, "bob@gmail.com", m.Email)
	assert.Equal(t, "Bob", m.Username)
	assert.Equal(t, types.ProviderGoogle, m.Provider)
	assert.Equal(t, types.RoleUser, m.Role)
	assert.Nil(t, m.PasswordHash)
	assert.True(t, m.Active)

	ids, err := conn.Identities().ListByMember(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, "g-1", ids[0].ProviderID)

	// segundo login: misma cuenta, sin duplicar
	again, err := svc.Authenticate(ctx, types.ProviderGoogle, "code-2", "")
	require.NoError(t, err)
	assert.Equal(t, m.ID, again.ID)
}

func TestEmailOwnedByOtherLoginMethodConflicts(t *testing.T) {
	conn := memory.New()
	ctx := context.Background()
	hash := "$2a$04$x"
	_, err := conn.Members().Create(ctx, repository.CreateMemberInput{Email: "bob@gmail.com", Username: "bob", PasswordHash: &hash})
	require.NoError(t, err)

	svc := newService(conn, nil, google("g-1", "bob@gmail.com"))
	_, err = svc.Authenticate(ctx, types.ProviderGoogle, "code", "")
	assert.ErrorIs(t, err, ErrAccountLinkConflict)
}

func TestDisabledFederatedMember(t *testing.T) {
	conn := memory.New()
	ctx := context.Background()
	svc := newService(conn, nil, google("g-1", "bob@gmail.com"))

	m, err := svc.Authenticate(ctx, types.ProviderGoogle, "c1", "")
	require.NoError(t, err)
	require.NoError(t, conn.Members().SetActive(ctx, m.ID, false))

	_, err = svc.Authenticate(ctx, types.ProviderGoogle, "c2", "")
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestParameterAndProviderErrors(t *testing.T) {
	conn := memory.New()
	naver := &fakeProvider{name: types.ProviderNaver, requireState: true,
		profile: providers.UserProfile{ProviderID: "n", Email: "n@naver.com"}}
	svc := newService(conn, nil, google("g-1", "bob@gmail.com"), naver)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, types.ProviderGoogle, "  ", "")
	assert.ErrorIs(t, err, ErrMissingAuthorizationParameter)

	_, err = svc.Authenticate(ctx, types.ProviderNaver, "code", "")
	assert.ErrorIs(t, err, ErrMissingAuthorizationParameter)

	_, err = svc.Authenticate(ctx, types.ProviderKakao, "code", "")
	assert.ErrorIs(t, err, ErrProviderNotEnabled)

	_, err = svc.Authenticate(ctx, types.ProviderNaver, "code", "st")
	assert.NoError(t, err)
}

func TestUpstreamFailuresAreTyped(t *testing.T) {
	ctx := context.Background()

	rejected := google("g", "e@x.com")
	rejected.exchangeErr = &providers.UpstreamError{Provider: types.ProviderGoogle, Op: "token", Status: 400, Code: "invalid_grant"}
	_, err := newService(memory.New(), nil, rejected).Authenticate(ctx, types.ProviderGoogle, "c", "")
	assert.ErrorIs(t, err, ErrProviderExchangeFailed)
	assert.ErrorIs(t, err, providers.ErrUpstreamRejected)

	down := google("g", "e@x.com")
	down.exchangeErr = &providers.UpstreamError{Provider: types.ProviderGoogle, Op: "token", Err: errors.New("timeout")}
	_, err = newService(memory.New(), nil, down).Authenticate(ctx, types.ProviderGoogle, "c", "")
	assert.ErrorIs(t, err, ErrProviderExchangeFailed)
	assert.NotErrorIs(t, err, providers.ErrUpstreamRejected)

	noEmail := google("g", "")
	_, err = newService(memory.New(), nil, noEmail).Authenticate(ctx, types.ProviderGoogle, "c", "")
	assert.ErrorIs(t, err, ErrProviderProfileUnavailable)

	profileDown := google("g", "e@x.com")
	profileDown.profileErr = errors.New("503")
	_, err = newService(memory.New(), nil, profileDown).Authenticate(ctx, types.ProviderGoogle, "c", "")
	assert.ErrorIs(t, err, ErrProviderProfileUnavailable)
}

func TestStateReplayIsRejected(t *testing.T) {
	naver := &fakeProvider{name: types.ProviderNaver, requireState: true,
		profile: providers.UserProfile{ProviderID: "n-1", Email: "n@naver.com"}}
	svc := newService(memory.New(), cache.NewMemory("t", time.Minute), naver)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, types.ProviderNaver, "code-1", "state-1")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, types.ProviderNaver, "code-2", "state-1")
	assert.ErrorIs(t, err, ErrStateReplayed)

	_, err = svc.Authenticate(ctx, types.ProviderNaver, "code-3", "state-2")
	assert.NoError(t, err)
}

func TestConcurrentDuplicateCallbacksShareOneExchange(t *testing.T) {
	conn := memory.New()
	p := google("g-1", "bob@gmail.com")
	p.gate = make(chan struct{})
	svc := newService(conn, nil, p)

	const n = 5
	var wg sync.WaitGroup
	ids := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := svc.Authenticate(context.Background(), types.ProviderGoogle, "same-code", "")
			errs[i] = err
			if m != nil {
				ids[i] = m.ID
			}
		}(i)
	}

	// dejar que todos entren al singleflight antes de liberar el exchange
	require.Eventually(t, func() bool { return p.exchanges.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(p.gate)
	wg.Wait()

	assert.Equal(t, int32(1), p.exchanges.Load())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestDuplicateCallbackWithOtherStateIsNotShared(t *testing.T) {
	conn := memory.New()
	naver := &fakeProvider{name: types.ProviderNaver, requireState: true,
		profile: providers.UserProfile{ProviderID: "n-1", Email: "n@naver.com"}}
	naver.gate = make(chan struct{})
	svc := newService(conn, cache.NewMemory("t", time.Minute), naver)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Authenticate(ctx, types.ProviderNaver, "same-code", "state-1")
	}()
	require.Eventually(t, func() bool { return naver.exchanges.Load() == 1 }, time.Second, 5*time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Authenticate(ctx, types.ProviderNaver, "same-code", "state-2")
	}()
	// el segundo callback hace su propio exchange en vez de colgarse del primero
	require.Eventually(t, func() bool { return naver.exchanges.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(naver.gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	_, err := svc.Authenticate(ctx, types.ProviderNaver, "same-code", "state-1")
	assert.ErrorIs(t, err, ErrStateReplayed)
}

// racingMembers simula que otro callback creó la cuenta entre el lookup y el insert.
type racingMembers struct {
	repository.MemberRepository
	conn *memory.Conn
	once sync.Once
}

func (r *racingMembers) CreateWithIdentity(ctx context.Context, in repository.CreateMemberInput, id repository.CreateIdentityInput) (*repository.Member, error) {
	var err error
	r.once.Do(func() {
		_, err = r.conn.Members().CreateWithIdentity(ctx, in, id)
	})
	if err != nil {
		return nil, err
	}
	return nil, repository.ErrConflict
}

func TestCreateRaceResolvesToWinner(t *testing.T) {
	conn := memory.New()
	members := &racingMembers{MemberRepository: conn.Members(), conn: conn}
	svc := NewSocialService(Deps{
		Members:    members,
		Identities: conn.Identities(),
		Registry:   providers.NewRegistry(google("g-1", "bob@gmail.com")),
	})

	m, err := svc.Authenticate(context.Background(), types.ProviderGoogle, "code", "")
	require.NoError(t, err)
	assert.Equal(t, "bob@gmail.com", m.Email)
}
